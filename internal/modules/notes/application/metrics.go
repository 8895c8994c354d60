package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeStored   = "stored"
	outcomeDeleted  = "deleted"
	outcomeInvalid  = "invalid"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notes_uploads_total",
		Help: "Note uploads by outcome.",
	}, []string{"outcome"})

	deletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notes_deletes_total",
		Help: "Note deletions by outcome.",
	}, []string{"outcome"})

	listedObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notes_listed_objects",
		Help: "Number of objects returned by the last successful listing.",
	})
)

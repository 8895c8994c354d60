package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// State of a Catalog's last load
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	msgLoadFailed   = "failed to load files"
	msgDeleteFailed = "failed to delete file"
)

// ErrNotLoaded is returned by operations that need a loaded catalog
var ErrNotLoaded = errors.New("catalog is not loaded")

// CatalogAPI is the part of API a Catalog uses
type CatalogAPI interface {
	List(ctx context.Context) ([]Blob, error)
	Delete(ctx context.Context, fileURL string) (string, error)
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Catalog is the client's copy of the listing. It is only changed by a full
// load or by pruning an item after the server acknowledged its deletion.
type Catalog struct {
	api     CatalogAPI
	state   State
	items   []Blob
	visible []Blob
	search  string
	errMsg  string
	message string
}

func NewCatalog(api CatalogAPI) *Catalog {
	return &Catalog{api: api, state: StateLoading}
}

// Load fetches the listing when the catalog is Loading. A failed load moves
// the catalog to Error, where it stays until Reload.
func (c *Catalog) Load(ctx context.Context) error {
	if c.state != StateLoading {
		return nil
	}
	items, err := c.api.List(ctx)
	if err != nil {
		c.state = StateError
		c.errMsg = msgLoadFailed
		return err
	}
	if items == nil {
		items = []Blob{}
	}
	c.items = items
	c.state = StateLoaded
	c.errMsg = ""
	c.refilter()
	return nil
}

// Reload discards the current listing and loads it again
func (c *Catalog) Reload(ctx context.Context) error {
	c.state = StateLoading
	c.items = nil
	c.visible = nil
	return c.Load(ctx)
}

func (c *Catalog) State() State { return c.state }

// Err is the message of the last failed load or delete, empty if none
func (c *Catalog) Err() string { return c.errMsg }

// Message is the server's acknowledgment of the last successful delete
func (c *Catalog) Message() string { return c.message }

func (c *Catalog) Search() string { return c.search }

// Items returns the full listing in server order
func (c *Catalog) Items() []Blob {
	return append([]Blob(nil), c.items...)
}

// SetSearch filters the visible items by a case-insensitive substring of
// their pathname
func (c *Catalog) SetSearch(term string) {
	c.search = term
	c.refilter()
}

// Visible returns the items matching the current search
func (c *Catalog) Visible() []Blob {
	return append([]Blob(nil), c.visible...)
}

// Delete asks confirm, then deletes blob on the server. The item is pruned
// locally only after the server acknowledges; on failure the catalog is left
// unchanged and Err describes the failure. It reports whether the item was
// deleted.
func (c *Catalog) Delete(ctx context.Context, blob Blob, confirm Confirmer) (bool, error) {
	if c.state != StateLoaded {
		return false, ErrNotLoaded
	}

	ok, err := confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", blob.DisplayName()))
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return false, nil
	}

	msg, err := c.api.Delete(ctx, blob.URL)
	if err != nil {
		c.errMsg = msgDeleteFailed
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.errMsg = apiErr.Message
		}
		return false, err
	}

	c.errMsg = ""
	c.message = msg
	c.items = prune(c.items, blob.Pathname)
	c.visible = prune(c.visible, blob.Pathname)
	return true, nil
}

// Find returns the first item whose display name or pathname equals name
func (c *Catalog) Find(name string) (Blob, bool) {
	for _, b := range c.items {
		if b.Pathname == name || b.DisplayName() == name {
			return b, true
		}
	}
	return Blob{}, false
}

func (c *Catalog) refilter() {
	term := strings.ToLower(c.search)
	c.visible = c.visible[:0]
	for _, b := range c.items {
		if strings.Contains(strings.ToLower(b.Pathname), term) {
			c.visible = append(c.visible, b)
		}
	}
}

func prune(items []Blob, pathname string) []Blob {
	out := items[:0]
	for _, b := range items {
		if b.Pathname != pathname {
			out = append(out, b)
		}
	}
	return out
}

package domain

import "fmt"

// Multipart field names shared by the upload endpoint and its clients.
const (
	FieldFile        = "archivo"
	FieldDisplayName = "nombrePdf"
	FieldSubject     = "asignatura"
)

const (
	SubjectSetSchool   = "school"
	SubjectSetFrontend = "frontend"
)

// SchoolSubjects is the subject list of the school deployment.
var SchoolSubjects = []string{
	"Matemáticas",
	"Lengua",
	"Inglés",
	"Ciencias Naturales",
	"Ciencias Sociales",
	"Educación Física",
	"Música",
	"Plástica",
	"Francés",
	"Valores Éticos",
}

// FrontendSubjects is the subject list of the frontend-technologies deployment.
var FrontendSubjects = []string{
	"React",
	"Angular",
	"Vue.js",
	"Svelte",
	"JavaScript",
	"TypeScript",
	"HTML",
	"CSS",
	"Next.js",
	"Astro",
}

// Rules are the upload constraints of a deployment.
type Rules struct {
	MaxFileSizeMB int
	Subjects      []string
}

// MaxFileSizeBytes is the inclusive upper bound for an uploaded file.
func (r Rules) MaxFileSizeBytes() int64 {
	return int64(r.MaxFileSizeMB) * 1024 * 1024
}

// RulesFor returns the compiled-in rules of a subject set. A positive
// maxFileSizeMB overrides the set's default limit.
func RulesFor(set string, maxFileSizeMB int) (Rules, error) {
	var rules Rules
	switch set {
	case SubjectSetSchool, "":
		rules = Rules{MaxFileSizeMB: 4, Subjects: SchoolSubjects}
	case SubjectSetFrontend:
		rules = Rules{MaxFileSizeMB: 1, Subjects: FrontendSubjects}
	default:
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownSubjectSet, set)
	}
	if maxFileSizeMB > 0 {
		rules.MaxFileSizeMB = maxFileSizeMB
	}
	return rules, nil
}

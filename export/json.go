package export

import (
	"encoding/json"
	"io"

	"github.com/kilianp07/school/core/course"
)

// JSON writes the courses as an array using the course's json tags.
type JSON struct {
	Indent string
}

// Export encodes courses.
func (e *JSON) Export(w io.Writer, courses []*course.Course) error {
	if courses == nil {
		courses = []*course.Course{}
	}
	enc := json.NewEncoder(w)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	return enc.Encode(courses)
}

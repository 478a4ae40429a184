package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/school/core/course"
)

// Attribute writes the course as YAML, or only the named attribute (its JSON
// key, dots descending into nested records) when attribute is not empty.
func Attribute(w io.Writer, c *course.Course, attribute string) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if attribute != "" {
		for _, key := range strings.Split(attribute, ".") {
			m, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: %s", ErrNoAttribute, attribute)
			}
			if v, ok = m[strings.ToLower(key)]; !ok {
				return fmt.Errorf("%w: %s", ErrNoAttribute, attribute)
			}
		}
	}
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

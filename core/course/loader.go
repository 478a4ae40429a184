package course

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/kilianp07/school/core/logger"
)

// DefaultDefinitionFile is the name of a course definition file.
const DefaultDefinitionFile = "info.yaml"

var folderRE = regexp.MustCompile(`^(.+) \(([^()\s][^()]*)\)$`)

// Loader discovers course definitions below Root.
type Loader struct {
	Root           string
	DefinitionFile string
	// Types restricts the accepted type folders. Empty accepts every type.
	Types  []string
	Logger logger.Logger
}

// LoadOptions tunes a single load pass.
type LoadOptions struct {
	IncludeUnscheduled bool
}

// NewLoader returns a Loader with the default definition file name.
func NewLoader(root string, types []string, log logger.Logger) *Loader {
	return &Loader{Root: root, DefinitionFile: DefaultDefinitionFile, Types: types, Logger: logger.OrNop(log)}
}

func (l *Loader) definitionFile() string {
	if l.DefinitionFile == "" {
		return DefaultDefinitionFile
	}
	return l.DefinitionFile
}

// Load walks Root in lexical order and returns the courses in discovery order.
// Symlinked folders are followed. The first invalid definition aborts the
// whole pass.
func (l *Loader) Load(opts LoadOptions) ([]*Course, error) {
	log := logger.OrNop(l.Logger)
	if _, err := os.Stat(l.Root); err != nil {
		return nil, fmt.Errorf("courses folder: %w", err)
	}
	var courses []*Course
	err := l.walk(l.Root, map[string]bool{}, func(path string) error {
		c, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		if !c.Scheduled() && !opts.IncludeUnscheduled {
			log.Debugf("skipping unscheduled course %s", c)
			return nil
		}
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("courses loaded", map[string]any{"root": l.Root, "count": len(courses)})
	return courses, nil
}

// walk calls visit for every definition file below dir, skipping dot entries.
// Paths keep the link names so they stay relative to Root; ancestors holds
// the resolved folders being walked and stops symlink cycles.
func (l *Loader) walk(dir string, ancestors map[string]bool, visit func(path string) error) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if ancestors[resolved] {
		logger.OrNop(l.Logger).Debugf("skipping symlink cycle at %s", dir)
		return nil
	}
	ancestors[resolved] = true
	defer delete(ancestors, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			st, err := os.Stat(path)
			if err != nil {
				logger.OrNop(l.Logger).Debugf("skipping dangling link %s", path)
				continue
			}
			isDir = st.IsDir()
		}
		switch {
		case isDir:
			if err := l.walk(path, ancestors, visit); err != nil {
				return err
			}
		case e.Name() == l.definitionFile():
			if err := visit(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFile loads the definition at path, which must lie in Root following the
// "<Name> (<ABBR>)/<type>/<file>" convention.
func (l *Loader) LoadFile(path string) (*Course, error) {
	name, abbr, typ, err := l.parsePath(path)
	if err != nil {
		return nil, &DefinitionError{Path: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &DefinitionError{Path: path, Err: err}
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return nil, &DefinitionError{Path: path, Err: err}
	}
	c.Name, c.Abbreviation, c.Type, c.Root = name, abbr, typ, l.Root
	return c, nil
}

func (l *Loader) parsePath(path string) (name, abbr, typ string, err error) {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return "", "", "", &DefinitionParseError{Reason: err.Error()}
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 3 {
		return "", "", "", &DefinitionParseError{
			Reason: fmt.Sprintf("expected '<Name> (<ABBR>)/<type>/%s' below %s", l.definitionFile(), l.Root),
		}
	}
	m := folderRE.FindStringSubmatch(parts[0])
	if m == nil {
		return "", "", "", &DefinitionParseError{
			Reason: fmt.Sprintf("the course abbreviation in '%s' is not valid", parts[0]),
		}
	}
	name, abbr, typ = strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), parts[1]
	if len(l.Types) > 0 && !slices.Contains(l.Types, typ) {
		return "", "", "", &DefinitionParseError{
			Reason: fmt.Sprintf("the course type '%s' in '%s' is not valid", typ, parts[0]),
		}
	}
	return name, abbr, typ, nil
}

// ErrNotInCourse is returned by FromPath when no definition is found.
var ErrNotInCourse = errors.New("not inside a course directory")

// FromPath climbs from dir towards the filesystem root and loads the first
// course definition it meets.
func (l *Loader) FromPath(dir string) (*Course, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, l.definitionFile())
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			abs := &Loader{Root: root, DefinitionFile: l.DefinitionFile, Types: l.Types, Logger: l.Logger}
			return abs.LoadFile(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotInCourse
		}
		dir = parent
	}
}

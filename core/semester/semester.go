// Package semester creates the course folders of a new semester from the
// timetable CSV exported by the university information system.
package semester

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/logger"
)

// Column layout of the "Rozvrh NG" CSV export.
const (
	colID = iota
	_
	colCode
	colName
	colDay
	colStart
	colRoom
	colDuration
	_
	_
	_
	colWeeks
	colTeacher
	columns
)

const (
	DefaultLectureType = "přednáška"
	DefaultLabType     = "cvičení"
)

// ErrNotEmpty is returned when the target folder already contains courses.
var ErrNotEmpty = errors.New("the courses folder is not empty")

// RowError points at the CSV line that could not be converted.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Options configure the initialisation.
type Options struct {
	LectureType    string
	LabType        string
	DefinitionFile string
	// Force allows writing into a non-empty folder.
	Force bool
}

func (o *Options) setDefaults() {
	if o.LectureType == "" {
		o.LectureType = DefaultLectureType
	}
	if o.LabType == "" {
		o.LabType = DefaultLabType
	}
	if o.DefinitionFile == "" {
		o.DefinitionFile = course.DefaultDefinitionFile
	}
}

// Entry is one course parsed from the export.
type Entry struct {
	Name         string
	Abbreviation string
	Type         string
	Definition   Definition
}

// Definition is what gets written to the definition file.
type Definition struct {
	Code      string            `yaml:"code,omitempty"`
	Teacher   *course.Teacher   `yaml:"teacher,omitempty"`
	Classroom *course.Classroom `yaml:"classroom,omitempty"`
	Time      *course.Time      `yaml:"time,omitempty"`
}

// Result summarises an initialisation.
type Result struct {
	Courses int
	Files   []string
}

var titleCase = cases.Title(language.English)

// Parse decodes a cp1250 encoded export. The header row is skipped.
func Parse(r io.Reader, opts Options) ([]Entry, error) {
	opts.setDefaults()
	cr := csv.NewReader(charmap.Windows1250.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = columns
	cr.LazyQuotes = true

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 {
			continue
		}
		e, err := parseRow(rec, opts)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRow(rec []string, opts Options) (Entry, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	name := rec[colName]
	if name == "" {
		return Entry{}, errors.New("empty course name")
	}
	day, err := strconv.Atoi(rec[colDay])
	if err != nil || day < 1 || day > 7 {
		return Entry{}, fmt.Errorf("invalid day %q", rec[colDay])
	}
	start, err := strconv.Atoi(rec[colStart])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid start %q", rec[colStart])
	}
	dur, err := strconv.Atoi(rec[colDuration])
	if err != nil || dur <= 0 {
		return Entry{}, fmt.Errorf("invalid duration %q", rec[colDuration])
	}

	def := Definition{
		Code: rec[colCode],
		Time: &course.Time{
			Day:   titleCase.String(course.Weekdays[day-1]),
			Start: start,
			End:   start + dur,
			Weeks: Weeks(rec[colWeeks]),
		},
	}
	if names := TeacherNames(rec[colTeacher]); len(names) > 0 {
		def.Teacher = &course.Teacher{Name: names}
	}
	if rec[colRoom] != "" {
		def.Classroom = &course.Classroom{Number: rec[colRoom]}
	}

	typ := opts.LabType
	if id := rec[colID]; len(id) > 0 && strings.HasSuffix(id[:len(id)-1], "p") {
		typ = opts.LectureType
	}
	return Entry{Name: name, Abbreviation: Abbreviation(name), Type: typ, Definition: def}, nil
}

// Weeks translates the parity column.
func Weeks(s string) string {
	switch strings.ToLower(s) {
	case "sude":
		return "even"
	case "liche":
		return "odd"
	}
	return ""
}

// Abbreviation is built from the upper-cased initials of the words of name
// that start with a letter or a digit.
func Abbreviation(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(w)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// TeacherNames splits the teacher column on commas and drops academic titles
// such as "doc. RNDr." or "Ph.D.".
func TeacherNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		var words []string
		for _, w := range strings.Fields(part) {
			if strings.HasSuffix(w, ".") {
				continue
			}
			words = append(words, w)
		}
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return out
}

// Initializer writes the course folders.
type Initializer struct {
	Root    string
	Options Options
	Logger  logger.Logger
}

// Initialize parses the export at csvPath and writes one definition file per
// course and type.
func (in *Initializer) Initialize(csvPath string) (Result, error) {
	log := logger.OrNop(in.Logger)
	opts := in.Options
	opts.setDefaults()

	f, err := os.Open(csvPath)
	if err != nil {
		return Result{}, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	entries, err := Parse(f, opts)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", csvPath, err)
	}

	if !opts.Force {
		if err := ensureEmpty(in.Root); err != nil {
			return Result{}, err
		}
	}

	var res Result
	seen := map[string]bool{}
	for _, e := range entries {
		c := course.Course{Name: e.Name, Abbreviation: e.Abbreviation, Type: e.Type, Root: in.Root}
		dir := c.Path(false)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("create course folder: %w", err)
		}
		out, err := yaml.Marshal(e.Definition)
		if err != nil {
			return res, fmt.Errorf("encode %s: %w", c.String(), err)
		}
		path := filepath.Join(dir, opts.DefinitionFile)
		if seen[path] {
			// several groups of one course share the folder, the last row wins
			log.Debugf("overwriting %s", path)
		} else {
			seen[path] = true
			res.Files = append(res.Files, path)
			res.Courses++
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return res, fmt.Errorf("write definition: %w", err)
		}
	}
	log.Infof("initialized %d courses in %s", res.Courses, in.Root)
	return res, nil
}

func ensureEmpty(root string) error {
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read courses folder: %w", err)
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			return fmt.Errorf("%s: %w", root, ErrNotEmpty)
		}
	}
	return nil
}

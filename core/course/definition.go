package course

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	classroomSchema = &Schema{Name: "Classroom", Fields: []Field{
		{Key: "address", Kinds: []Kind{KindString}},
		{Key: "number", Kinds: []Kind{KindString, KindInt}},
		{Key: "floor", Kinds: []Kind{KindInt}},
	}}

	teacherSchema = &Schema{Name: "Teacher", Fields: []Field{
		{Key: "name", Kinds: []Kind{KindString, KindSeq}, Elem: KindString, Required: true},
		{Key: "email", Kinds: []Kind{KindString, KindSeq}, Elem: KindString},
		{Key: "website", Kinds: []Kind{KindString}},
		{Key: "office", Kinds: []Kind{KindString}},
		{Key: "note", Kinds: []Kind{KindString}},
	}}

	timeSchema = &Schema{Name: "Time", Fields: []Field{
		{Key: "day", Kinds: []Kind{KindString}, Required: true},
		{Key: "start", Kinds: []Kind{KindInt}, Required: true},
		{Key: "end", Kinds: []Kind{KindInt}, Required: true},
		{Key: "weeks", Kinds: []Kind{KindString}},
	}}

	finalsSchema = &Schema{Name: "Finals", Fields: []Field{
		{Key: "date", Kinds: []Kind{KindTimestamp, KindString}, Required: true},
		{Key: "classroom", Kinds: []Kind{KindMap}, Schema: classroomSchema, Required: true},
	}}

	// CourseSchema describes the content of a definition file.
	CourseSchema = &Schema{Name: "Course", Fields: []Field{
		{Key: "code", Kinds: []Kind{KindString, KindInt}},
		{Key: "teacher", Kinds: []Kind{KindMap}, Schema: teacherSchema},
		{Key: "classroom", Kinds: []Kind{KindMap}, Schema: classroomSchema},
		{Key: "time", Kinds: []Kind{KindMap}, Schema: timeSchema},
		{Key: "website", Kinds: []Kind{KindString, KindSeq}, Elem: KindString},
		{Key: "online", Kinds: []Kind{KindString}},
		{Key: "finals", Kinds: []Kind{KindMap}, Schema: finalsSchema},
		{Key: "other", Kinds: []Kind{KindAny}},
	}}
)

// Decode parses a definition from r into a course without its path-derived fields.
func Decode(r io.Reader) (*Course, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &DefinitionParseError{Reason: err.Error()}
	}
	rec, err := CourseSchema.Decode(&doc)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

func fromRecord(rec *Record) (*Course, error) {
	c := &Course{
		Code:    rec.String("code"),
		Website: rec.Strings("website"),
		Online:  rec.String("online"),
	}
	if t := rec.Record("teacher"); t != nil {
		c.Teacher = &Teacher{
			Name:    t.Strings("name"),
			Email:   t.Strings("email"),
			Website: t.String("website"),
			Office:  t.String("office"),
			Note:    t.String("note"),
		}
	}
	if cr := rec.Record("classroom"); cr != nil {
		room, err := classroomFromRecord(cr)
		if err != nil {
			return nil, err
		}
		c.Classroom = &room
	}
	if tr := rec.Record("time"); tr != nil {
		t, err := timeFromRecord(tr)
		if err != nil {
			return nil, err
		}
		c.Time = t
	}
	if fr := rec.Record("finals"); fr != nil {
		date, err := fr.Time("date", time.Local)
		if err != nil {
			return nil, err
		}
		room, err := classroomFromRecord(fr.Record("classroom"))
		if err != nil {
			return nil, err
		}
		c.Finals = &Finals{Date: date, Classroom: room}
	}
	other, err := rec.Any("other")
	if err != nil {
		return nil, err
	}
	c.Other = other
	return c, nil
}

func classroomFromRecord(rec *Record) (Classroom, error) {
	room := Classroom{Address: rec.String("address"), Number: rec.String("number")}
	if rec.Has("floor") {
		floor, err := rec.Int("floor")
		if err != nil {
			return Classroom{}, err
		}
		room.Floor = &floor
	}
	return room, nil
}

func timeFromRecord(rec *Record) (*Time, error) {
	start, err := rec.Int("start")
	if err != nil {
		return nil, err
	}
	end, err := rec.Int("end")
	if err != nil {
		return nil, err
	}
	t := &Time{Day: rec.String("day"), Start: start, End: end, Weeks: rec.String("weeks")}
	if _, err := WeekdayIndex(t.Day); err != nil {
		return nil, &InvalidValueError{Record: "Time", Field: "day", Value: t.Day, Reason: "not a weekday name"}
	}
	if start < 0 || end > MinutesPerDay {
		return nil, &InvalidValueError{Record: "Time", Field: "start", Value: start,
			Reason: fmt.Sprintf("slot must lie within 0..%d", MinutesPerDay)}
	}
	if start >= end {
		return nil, &InvalidValueError{Record: "Time", Field: "end", Value: end, Reason: "must be after start"}
	}
	return t, nil
}

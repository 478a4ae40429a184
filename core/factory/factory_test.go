package factory

import (
	"errors"
	"testing"
)

type sample struct{ Argv []string }

type sampleConf struct {
	Argv    []string `json:"argv"`
	Timeout int      `json:"timeout"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("command", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Argv: c.Argv}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "command", Conf: map[string]any{"argv": []any{"notify-send", "-u", "low"}, "timeout": "5"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(inst.Argv) != 3 || inst.Argv[0] != "notify-send" {
		t.Fatalf("unexpected argv %v", inst.Argv)
	}

	if _, err := reg.Create(ModuleConfig{Type: "command", Conf: map[string]any{"agrv": "x"}}); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	_, err := reg.Create(ModuleConfig{Type: "y"})
	var ute *UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if len(ute.Known) != 1 || ute.Known[0] != "x" {
		t.Fatalf("unexpected known types %v", ute.Known)
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"xlsx", "ics", "json"} {
		reg.MustRegister(n, func(map[string]any) (int, error) { return 0, nil })
	}
	got := reg.Names()
	want := []string{"ics", "json", "xlsx"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names %v, want %v", got, want)
		}
	}
}

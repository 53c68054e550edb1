package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRunner(t *testing.T) {
	t.Run("FillsDefaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil {
			t.Error("runner should default to the embedded config")
		}
		if r.logger == nil {
			t.Error("runner should default a logger")
		}
		if r.output == nil {
			t.Error("runner should default an output writer")
		}
	})

	t.Run("KeepsProvidedDependencies", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if r.output != &buf {
			t.Error("provided output writer should be kept")
		}
	})
}

func TestRegister(t *testing.T) {
	r := NewRunner(RunnerOpts{})
	commands := r.register()

	if len(commands) != 9 {
		t.Fatalf("expected 9 top-level commands, got %d", len(commands))
	}

	names := map[string]bool{}
	for _, c := range commands {
		names[c.Name] = true
	}
	for _, want := range []string{"setup", "auth", "catalog", "fav", "downloads", "picks", "admin", "play", "api"} {
		if !names[want] {
			t.Errorf("missing %q command", want)
		}
	}
}

func TestWriteHelpers(t *testing.T) {
	t.Run("JSONCompact", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]string{"id": "m1"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := buf.String(); got != "{\"id\":\"m1\"}\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("JSONPretty", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]string{"id": "m1"}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"id\": \"m1\"\n") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("Plain", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		r.writePlain("count: %d", 3)
		if buf.String() != "count: 3" {
			t.Errorf("output = %q", buf.String())
		}

		buf.Reset()
		r.writePlainln("done")
		if buf.String() != "\ndone\n" {
			t.Errorf("output = %q", buf.String())
		}
	})
}

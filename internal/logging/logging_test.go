package logging_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ptr89/internal/logging"
)

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Level: "debug", Out: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info().Str("file", "ff.bin").Msg("loaded")
	log.Debug().Int("depth", 2).Msg("nested step")
	log.Warn().Err(errors.New("bad pattern")).Msg("skipped")

	out := buf.String()
	if !strings.HasPrefix(out, "loaded file=ff.bin\n") {
		t.Errorf("info line: %q", out)
	}
	if !strings.Contains(out, "\n    nested step\n") {
		t.Errorf("depth 2 line is not indented: %q", out)
	}
	if !strings.Contains(out, "skipped") || !strings.Contains(out, "bad pattern") {
		t.Errorf("warn line: %q", out)
	}
	if strings.Contains(out, "[green]") || strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes leaked with NoColor: %q", out)
	}
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Level: "info", Out: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	if _, err := logging.New(logging.Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Level: "info", Format: "json", Out: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("got %q", buf.String())
	}
}

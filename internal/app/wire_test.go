package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"ptr89/internal/app"
	"ptr89/internal/config"
)

func TestNewWire_WithImageAndCache(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "ff.bin")
	if err := os.WriteFile(image, []byte{0, 0, 0xAB, 0xCD}, 0o600); err != nil {
		t.Fatal(err)
	}

	settings, err := config.Load("", map[string]any{
		"search.base":  "08000000",
		"search.align": 2,
		"cache.path":   filepath.Join(dir, "cache.db"),
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	var logs bytes.Buffer
	w, err := app.NewWire(context.Background(), app.Config{Settings: settings, ImagePath: image, LogOut: &logs, NoColor: true})
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	defer w.Close()

	if w.Memory.Base != 0x08000000 || w.Memory.Align != 2 || len(w.Memory.Data) != 4 {
		t.Fatalf("memory = %+v", w.Memory)
	}
	if w.Cache == nil {
		t.Fatal("cache not opened")
	}

	reports, err := w.Scan.FindPatterns(context.Background(), w.Memory, []string{"AB CD"}, 0)
	if err != nil {
		t.Fatalf("FindPatterns: %v", err)
	}
	if r := reports[0].Results; len(r) != 1 || r[0].Address != 0x08000002 {
		t.Fatalf("results = %+v", r)
	}
}

func TestNewWire_NoImage(t *testing.T) {
	settings, err := config.Load("", map[string]any{"cache.path": filepath.Join(t.TempDir(), "c.db")})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	w, err := app.NewWire(context.Background(), app.Config{Settings: settings, LogOut: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	if w.Image != nil || w.Cache != nil {
		t.Fatalf("image/cache opened without an image: %+v", w)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewWire_MissingImage(t *testing.T) {
	settings, err := config.Load("", nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	_, err = app.NewWire(context.Background(), app.Config{
		Settings:  settings,
		ImagePath: filepath.Join(t.TempDir(), "missing.bin"),
		LogOut:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

package app

import (
	"io"

	"ptr89/internal/config"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Settings  *config.Config
	ImagePath string    // fullflash file; empty when no image is needed
	LogOut    io.Writer // where log lines go, usually stderr
	NoColor   bool
}

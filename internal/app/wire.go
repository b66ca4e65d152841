package app

import (
	"context"

	"github.com/rs/zerolog"

	"ptr89/internal/config"
	"ptr89/internal/domain"
	"ptr89/internal/firmware"
	"ptr89/internal/library"
	"ptr89/internal/logging"
	"ptr89/internal/search"
	scansvc "ptr89/internal/services/scan"
	"ptr89/internal/store"
)

// Wire bundles the image, stores and services for the CLI.
type Wire struct {
	Settings *config.Config
	Log      zerolog.Logger
	Image    *firmware.Image // nil without ImagePath
	Memory   search.Memory
	Cache    *store.Cache // nil when caching is off
	Library  domain.LibraryLoader
	Scan     *scansvc.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	s := cfg.Settings

	log, err := logging.New(logging.Options{
		Level:   s.Log.Level,
		Format:  s.Log.Format,
		Out:     cfg.LogOut,
		NoColor: cfg.NoColor,
	})
	if err != nil {
		return nil, err
	}

	w := &Wire{
		Settings: s,
		Log:      log,
		Library:  library.NewLoader(s.HTTP.Timeout),
	}

	// Firmware image, mapped at the configured base
	var digest string
	if cfg.ImagePath != "" {
		img, err := firmware.Load(cfg.ImagePath)
		if err != nil {
			return nil, err
		}
		w.Image = img
		w.Memory = img.Memory(s.BaseAddr(), s.Search.Align)
		digest = img.Digest()
		log.Debug().
			Str("file", img.Path).
			Int("size", len(img.Data)).
			Str("digest", img.Fingerprint()).
			Msgf("firmware mapped at %08X", w.Memory.Base)
	}

	// Result cache, only useful with an image to key it by
	var cache domain.ResultCache
	if s.Cache.Path != "" && w.Image != nil {
		c, err := store.OpenCache(ctx, s.Cache.Path)
		if err != nil {
			return nil, err
		}
		w.Cache = c
		cache = c
	}

	w.Scan = scansvc.New(scansvc.Options{
		Jobs:   s.Search.Jobs,
		Cache:  cache,
		Digest: digest,
		Log:    log,
	})
	return w, nil
}

// Close releases the cache database.
func (w *Wire) Close() error {
	if w.Cache != nil {
		return w.Cache.Close()
	}
	return nil
}

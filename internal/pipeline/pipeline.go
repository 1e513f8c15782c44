// Package pipeline turns uploaded image bytes into placeholders and resized
// images.
package pipeline

import (
	"fmt"

	"github.com/AnyUserName/picpack/internal/encoder"
	"go.uber.org/zap"
)

const (
	// DefaultJPEGQuality is the quality used for every JPEG the pipeline writes.
	DefaultJPEGQuality = encoder.DefaultJPEGQuality

	// DefaultShrinkWidth and DefaultShrinkHeight bound the image fed to
	// the perceptual hash, which accepts at most 100x100 pixels.
	DefaultShrinkWidth  = 100
	DefaultShrinkHeight = 100

	// DefaultMaxPixels bounds both the declared size of an upload and the
	// size of a requested resize output (about 160 MB as NRGBA).
	DefaultMaxPixels = 40_000_000
)

// Config holds the tunables of a Generator.  Zero values take defaults.
type Config struct {
	JPEGQuality  int
	ShrinkWidth  int
	ShrinkHeight int
	// MaxInputPixels rejects uploads whose header declares more pixels.
	MaxInputPixels int
	// MaxOutputPixels rejects resize requests producing more pixels.
	MaxOutputPixels int
	Logger          *zap.Logger
}

// Generator runs placeholder and resize jobs.  It is immutable after New
// and safe for concurrent use.
type Generator struct {
	cfg      Config
	registry *encoder.Registry
	log      *zap.Logger
}

// New creates a configured generator.
func New(cfg Config) *Generator {
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.ShrinkWidth <= 0 || cfg.ShrinkWidth > DefaultShrinkWidth {
		cfg.ShrinkWidth = DefaultShrinkWidth
	}
	if cfg.ShrinkHeight <= 0 || cfg.ShrinkHeight > DefaultShrinkHeight {
		cfg.ShrinkHeight = DefaultShrinkHeight
	}
	if cfg.MaxInputPixels <= 0 {
		cfg.MaxInputPixels = DefaultMaxPixels
	}
	if cfg.MaxOutputPixels <= 0 {
		cfg.MaxOutputPixels = DefaultMaxPixels
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Generator{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		log:      cfg.Logger.Named("pipeline"),
	}
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Formats lists the containers the generator can re-encode.
func (g *Generator) Formats() []string {
	return g.registry.Formats()
}

// CacheTag identifies the settings that shape a placeholder, so records
// produced under different settings never share a cache key.
func (g *Generator) CacheTag() string {
	return fmt.Sprintf("q%d-%dx%d", g.cfg.JPEGQuality, g.cfg.ShrinkWidth, g.cfg.ShrinkHeight)
}

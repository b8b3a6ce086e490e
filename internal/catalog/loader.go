package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/studioforge/gacha-engine/internal/gacha"
	"github.com/studioforge/gacha-engine/internal/pricing"
)

// GameConfig is the built, validated configuration for one game: its
// item catalog, its banners keyed by id, and the gem-pack shop used
// for purchase planning.
type GameConfig struct {
	GameID     string
	Version    string
	Items      gacha.Catalog
	Banners    map[string]gacha.GachaBanner
	Shop       pricing.Catalog
	PerTenPull int // gem price of a ten-pull bundle; 0 means no bundle
}

// Paths helper for default/game config files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "games", "default.yaml")
}

func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, "games", game+".yaml")
}

// GamePaths returns every YAML file under games/, for change watching.
func (p Paths) GamePaths() []string {
	matches, _ := filepath.Glob(filepath.Join(p.BaseDir, "games", "*.yaml"))
	return matches
}

// Loader reads YAML configs, merges default -> game, builds the gacha
// values, and caches the result per game.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]GameConfig
}

// NewLoader creates a config loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]GameConfig),
	}
}

// Paths exposes the loader's path layout (for watch wiring).
func (l *Loader) Paths() Paths { return l.paths }

// Game returns the built config for a game, loading and validating it
// on first use.
func (l *Loader) Game(game string) (GameConfig, error) {
	l.mu.RLock()
	if gc, ok := l.cache[game]; ok {
		l.mu.RUnlock()
		return gc, nil
	}
	l.mu.RUnlock()

	raw, err := l.loadMerged(game)
	if err != nil {
		return GameConfig{}, err
	}
	gc, err := build(game, raw)
	if err != nil {
		return GameConfig{}, err
	}

	l.mu.Lock()
	l.cache[game] = gc
	l.mu.Unlock()
	return gc, nil
}

// Invalidate clears the cache. Call after hot reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]GameConfig)
}

// loadMerged reads default and game files and merges them, game
// values winning.
func (l *Loader) loadMerged(game string) (RawConfig, error) {
	def, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default config: %w", err)
	}
	gameCfg, err := readYAML(l.paths.GamePath(game))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read game config %s: %w", game, err)
	}
	return mergeRaw(def, gameCfg), nil
}

// readYAML loads one file. Missing files return a zero config, not an
// error, so a game can live entirely in default.yaml and vice versa.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// mergeRaw overlays b on a: scalars and defaults from b win where set,
// item and banner lists concatenate (defaults first).
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	if b.Defaults.Pity != nil {
		out.Defaults.Pity = b.Defaults.Pity
	}
	if b.Defaults.RateUp != nil {
		out.Defaults.RateUp = b.Defaults.RateUp
	}
	if b.Defaults.PullCost != nil {
		out.Defaults.PullCost = b.Defaults.PullCost
	}
	if len(b.Defaults.Rates) > 0 {
		out.Defaults.Rates = b.Defaults.Rates
	}
	if b.Defaults.Soft != nil {
		out.Defaults.Soft = b.Defaults.Soft
	}

	if b.Shop != nil {
		out.Shop = b.Shop
	}

	out.Items = append(append([]RawItem(nil), a.Items...), b.Items...)
	out.Banners = append(append([]RawBanner(nil), a.Banners...), b.Banners...)
	return out
}

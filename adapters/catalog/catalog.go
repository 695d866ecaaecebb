// Package catalog provides the fallback fixture catalog with hot reload.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"

	"github.com/artpar/sportsgate/domain/matches"
	"github.com/artpar/sportsgate/ports"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for a catalog file that lists no sports.
var ErrEmpty = errors.New("catalog is empty")

// Load reads a YAML catalog file of the form:
//
//	football:
//	  - "Premier League: Manchester City vs Arsenal"
//	cricket:
//	  - "ODI: India vs Australia"
func Load(path string) (matches.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog data. Sport names are normalized.
func Parse(data []byte) (matches.Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	return matches.Catalog(raw).Clone(), nil
}

// Holder provides thread-safe access to the catalog with hot reload support.
type Holder struct {
	mu       sync.RWMutex
	catalog  matches.Catalog
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onReload []func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewBuiltin creates a holder serving the built-in catalog. It never reloads.
func NewBuiltin(logger zerolog.Logger) *Holder {
	return &Holder{
		catalog: matches.DefaultCatalog(),
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// NewHolder loads the catalog at path. An empty path yields the built-in catalog.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	if path == "" {
		return NewBuiltin(logger), nil
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		catalog: c,
		path:    absPath,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Fixtures returns a copy of the fixtures for sport, or an empty list.
func (h *Holder) Fixtures(sport string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog.Fixtures(sport)
}

// Sports returns the sports currently in the catalog.
func (h *Holder) Sports() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog.Sports()
}

// Path returns the watched file, empty for the built-in catalog.
func (h *Holder) Path() string {
	return h.path
}

// OnReload registers a callback run after every reload attempt with its error.
func (h *Holder) OnReload(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

// Reload re-reads the catalog file. On failure the previous catalog stays.
func (h *Holder) Reload() error {
	if h.path == "" {
		return nil
	}

	c, err := Load(h.path)

	h.mu.Lock()
	if err == nil {
		h.catalog = c
	}
	hooks := slices.Clone(h.onReload)
	h.mu.Unlock()

	for _, fn := range hooks {
		fn(err)
	}

	if err != nil {
		h.logger.Error().Err(err).Str("path", h.path).Msg("catalog reload failed, keeping old catalog")
		return fmt.Errorf("reload catalog: %w", err)
	}
	h.logger.Info().Str("path", h.path).Int("sports", len(c)).Msg("catalog reloaded")
	return nil
}

// WatchFile starts watching the catalog file for changes.
// A no-op for the built-in catalog.
func (h *Holder) WatchFile() error {
	if h.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory (more reliable for editors that do atomic saves)
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.watcher = watcher

	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching catalog file for changes")
	return nil
}

// WatchSignals reloads the catalog on SIGHUP.
func (h *Holder) WatchSignals() {
	if h.path == "" {
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading catalog")
				_ = h.Reload()
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals. Safe to call twice.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(w *fsnotify.Watcher) {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("catalog file changed")
				_ = h.Reload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

// Ensure interface compliance.
var _ ports.Catalog = (*Holder)(nil)

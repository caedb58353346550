package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/CSM357/game-2048/game/engine"
	"github.com/CSM357/game-2048/game/service"
)

var (
	// ErrConfigNotFound is shared with the service layer so callers can match it with errors.Is
	ErrConfigNotFound = service.ErrConfigNotFound
	// ErrInvalidConfig covers both bad config contents and names that are not usable ids
	ErrInvalidConfig = service.ErrInvalidConfig
)

const (
	configExt       = ".json"
	defaultConfigID = "classic"
)

// ConfigID turns a user supplied config name into the id that names its file
// and keys the cache. "mini", " mini " and "mini.json" all map to "mini".
// Names that would resolve outside the config directory are rejected.
func ConfigID(name string) (string, error) {
	id := strings.TrimSuffix(strings.TrimSpace(name), configExt)
	if id == "" {
		return "", fmt.Errorf("%w: empty config name", ErrInvalidConfig)
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: config name %q is not a plain file name", ErrInvalidConfig, name)
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_. ", r) {
			return "", fmt.Errorf("%w: config name %q contains %q", ErrInvalidConfig, name, r)
		}
	}
	return id, nil
}

// Manager serves the game configs found in one directory. Parsed configs are
// cached by id; callers get copies, so nothing they do reaches the cache.
type Manager struct {
	dir  string
	mu   sync.RWMutex
	byID map[string]*engine.GameConfig
	def  *engine.GameConfig
}

// NewManager opens dir and picks the default config from it
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config directory %s is not a directory", dir)
	}

	m := &Manager{dir: dir, byID: make(map[string]*engine.GameConfig)}
	m.pickDefault()
	return m, nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.dir, id+configExt)
}

// LoadConfig returns the config with the given name, reading it from disk on first use
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id, err := ConfigID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	cached, ok := m.byID[id]
	m.mu.RUnlock()
	if ok {
		return copyConfig(cached), nil
	}

	cfg, err := m.read(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A concurrent load may have won; keep whichever got there first
	if existing, ok := m.byID[id]; ok {
		cfg = existing
	} else {
		m.byID[id] = cfg
	}
	m.mu.Unlock()
	return copyConfig(cfg), nil
}

// read parses and validates one file without touching the cache
func (m *Manager) read(id string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, id)
		}
		return nil, fmt.Errorf("reading config %s: %w", id, err)
	}

	var cfg engine.GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, id, err)
	}
	if err := engine.ValidateGameConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, id, err)
	}
	return &cfg, nil
}

// ListConfigs describes every usable config in the directory, smallest board
// first. Files that fail to parse or validate are logged and left out.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory: %w", err)
	}

	infos := make([]*service.ConfigInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != configExt {
			continue
		}
		id, err := ConfigID(entry.Name())
		if err != nil {
			log.Printf("[CONFIG] skipping %s: %v", entry.Name(), err)
			continue
		}
		cfg, err := m.LoadConfig(id)
		if err != nil {
			log.Printf("[CONFIG] skipping %s: %v", entry.Name(), err)
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        cfg.Name,
			Description: cfg.Description,
			BoardSize:   cfg.BoardSize,
			WinTarget:   cfg.WinTarget,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.BoardSize != b.BoardSize {
			return a.BoardSize < b.BoardSize
		}
		if a.WinTarget != b.WinTarget {
			return a.WinTarget < b.WinTarget
		}
		return a.ConfigID < b.ConfigID
	})
	return infos, nil
}

// GetDefault returns a copy of the config used when a session names none
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyConfig(m.def)
}

// SetDefault makes the named config the default
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.def = cfg
	m.mu.Unlock()
	return nil
}

// RefreshCache drops every cached config and picks the default again, so
// edits made on disk show up on the next load.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.byID = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.pickDefault()
	return nil
}

// pickDefault prefers classic, then the first listed config, then the built-in game
func (m *Manager) pickDefault() {
	cfg, err := m.LoadConfig(defaultConfigID)
	if err != nil {
		cfg = engine.DefaultGameConfig()
		if infos, listErr := m.ListConfigs(); listErr == nil && len(infos) > 0 {
			if first, loadErr := m.LoadConfig(infos[0].ConfigID); loadErr == nil {
				cfg = first
			}
		}
	}

	m.mu.Lock()
	m.def = cfg
	m.mu.Unlock()
}

// SaveConfig validates cfg and writes it as <name>.json. The file is written
// to a temp file first and renamed, so readers never see half a config.
func (m *Manager) SaveConfig(name string, cfg *engine.GameConfig) error {
	id, err := ConfigID(name)
	if err != nil {
		return err
	}
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(m.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("saving config %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("saving config %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving config %s: %w", id, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("saving config %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), m.path(id)); err != nil {
		return fmt.Errorf("saving config %s: %w", id, err)
	}

	m.mu.Lock()
	m.byID[id] = copyConfig(cfg)
	m.mu.Unlock()
	return nil
}

func copyConfig(cfg *engine.GameConfig) *engine.GameConfig {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}

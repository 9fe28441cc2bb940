// Package prefs persists the last building setup between runs.
package prefs

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/internal/view"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

const (
	settingsObject = "settings"
	setupProperty  = "setup"
)

// Store keeps the setup form values in memory and, when a gdata manager is
// available, on disk. A nil manager means memory only.
type Store struct {
	mu    sync.Mutex
	mgr   *gdata.Manager
	setup types.SetupRequest
	log   *zap.Logger
}

// Open uses the platform data dir of appName. Failing to open storage is not
// fatal: the store falls back to memory.
func Open(appName string, log *zap.Logger) *Store {
	log = logging.OrNop(log)
	mgr, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn("preferences not persisted", zap.String("app", appName), zap.Error(err))
		mgr = nil
	}
	return New(mgr, log)
}

func New(mgr *gdata.Manager, log *zap.Logger) *Store {
	s := &Store{mgr: mgr, setup: view.DefaultSetup(), log: logging.OrNop(log).With(zap.String("component", "prefs"))}
	if err := s.Load(); err != nil {
		s.log.Warn("failed to load preferences, using defaults", zap.Error(err))
	}
	return s
}

// Load reads the saved setup. Missing data leaves the defaults in place.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mgr == nil || !s.mgr.ObjectPropExists(settingsObject, setupProperty) {
		s.setup = view.DefaultSetup()
		return nil
	}

	data, err := s.mgr.LoadObjectProp(settingsObject, setupProperty)
	if err != nil {
		s.setup = view.DefaultSetup()
		return fmt.Errorf("failed to load setup: %w", err)
	}

	var req types.SetupRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		s.setup = view.DefaultSetup()
		return fmt.Errorf("failed to unmarshal setup: %w", err)
	}
	s.setup = view.Clamp(req)
	return nil
}

func (s *Store) Setup() types.SetupRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setup
}

// Save clamps req, keeps it and writes it through when persistence is on.
func (s *Store) Save(req types.SetupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setup = view.Clamp(req)
	if s.mgr == nil {
		return nil
	}

	data, err := yaml.Marshal(s.setup)
	if err != nil {
		return fmt.Errorf("failed to marshal setup: %w", err)
	}
	if err := s.mgr.SaveObjectProp(settingsObject, setupProperty, data); err != nil {
		return fmt.Errorf("failed to save setup: %w", err)
	}
	return nil
}

package ocr

import (
	"context"
	"errors"
	"sync"

	"omniocr/internal/config"
	"omniocr/internal/logger"
)

// Engines owns one Facade per engine tag for the life of a process. Each
// tag is constructed at most once; concurrent first callers share the
// result, including a construction error.
type Engines struct {
	cfg     config.Config
	build   func(ctx context.Context, tag string, cfg config.Config) (Engine, error)
	options []FacadeOption

	mu      sync.Mutex
	entries map[string]*engineEntry
}

type engineEntry struct {
	once   sync.Once
	facade *Facade
	err    error
}

func NewEngines(cfg config.Config, opts ...FacadeOption) *Engines {
	return &Engines{
		cfg:     cfg,
		build:   NewEngine,
		options: opts,
		entries: make(map[string]*engineEntry),
	}
}

// Get returns the Facade for tag, building its engine on first use.
func (s *Engines) Get(ctx context.Context, tag string) (*Facade, error) {
	name, ok := Resolve(tag)
	if !ok {
		return nil, unknownEngine(tag)
	}

	s.mu.Lock()
	entry, found := s.entries[name]
	if !found {
		entry = &engineEntry{}
		s.entries[name] = entry
	}
	s.mu.Unlock()

	entry.once.Do(func() {
		logger.DebugLog("[engines]: initialising %s", name)
		// the engine outlives the request that happened to build it
		e, err := s.build(context.WithoutCancel(ctx), name, s.cfg)
		if err != nil {
			entry.err = err
			return
		}
		entry.facade = NewFacade(e, s.options...)
	})
	return entry.facade, entry.err
}

// Close releases every engine built so far.
func (s *Engines) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for name, entry := range s.entries {
		if entry.facade == nil {
			continue
		}
		logger.DebugLog("[engines]: closing %s", name)
		if err := entry.facade.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.entries = make(map[string]*engineEntry)
	return errors.Join(errs...)
}

package fixture

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/frherrer/mdconform/internal/domain"
)

type result struct {
	fixture Fixture
	err     error
}

// Cache memoizes one fixture per key for the lifetime of a run. Concurrent
// first requests for a key share a single build; failures are memoized too.
type Cache struct {
	builder Builder
	log     *logrus.Logger

	flight singleflight.Group

	mu       sync.RWMutex
	resolved map[Key]result
}

// NewCache creates a Cache backed by builder.
func NewCache(builder Builder, log *logrus.Logger) *Cache {
	return &Cache{
		builder:  builder,
		log:      log,
		resolved: make(map[Key]result),
	}
}

// Get returns the fixture for key, building it on first use.
func (c *Cache) Get(ctx context.Context, key Key) (Fixture, error) {
	if r, ok := c.lookup(key); ok {
		return r.fixture, r.err
	}

	v, _, _ := c.flight.Do(key.Name(), func() (interface{}, error) {
		// A build that finished between lookup and Do has already been stored.
		if r, ok := c.lookup(key); ok {
			return r, nil
		}

		c.log.Infof("Building fixture %s", key)
		// The build outlives the first caller's cancellation.
		f, err := c.builder.Build(context.WithoutCancel(ctx), key)
		if err == nil && f == nil {
			err = errors.New("builder returned no fixture")
		}
		if err != nil {
			err = wrapBuildError(key, err)
			c.log.Errorf("Fixture %s failed to build: %v", key, err)
		}
		r := result{fixture: f, err: err}

		c.mu.Lock()
		c.resolved[key] = r
		c.mu.Unlock()
		return r, nil
	})

	r := v.(result)
	return r.fixture, r.err
}

// Built returns the keys resolved so far, successful or not.
func (c *Cache) Built() map[Key]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[Key]error, len(c.resolved))
	for k, r := range c.resolved {
		out[k] = r.err
	}
	return out
}

func (c *Cache) lookup(key Key) (result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resolved[key]
	return r, ok
}

func wrapBuildError(key Key, err error) error {
	if domain.IsKind(err, domain.KindBuildFailure) {
		return err
	}
	e := domain.NewKindError("build", domain.KindBuildFailure, "failed to build fixture "+key.String(), err)
	return e
}

// Package best persists the highest WPM reached on each tier.
//
// Scores live in a single JSON record shaped as
//
//	{"easy":{"wpm":0},"medium":{"wpm":0},"hard":{"wpm":0}}
//
// Missing or malformed entries read as 0 and are repaired on load.
package best

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/verte-zerg/speedtype/internal/model"
)

// Key is the record key the scores are stored under.
const Key = "best_results"

const lockRetryDelay = 10 * time.Millisecond

// KV is the record storage backing the cache.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Cache reads and updates best scores.
type Cache struct {
	kv   KV
	lock *flock.Flock
}

// Option configures a Cache.
type Option func(*Cache)

// WithLock guards updates with an exclusive file lock at path so several
// running processes do not overwrite each other's scores.
func WithLock(path string) Option {
	return func(c *Cache) {
		c.lock = flock.New(path)
	}
}

// New returns a Cache over kv.
func New(kv KV, opts ...Option) *Cache {
	c := &Cache{kv: kv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the stored scores. Absent or malformed data yields zeros and
// the repaired record is written back.
func (c *Cache) Load(ctx context.Context) (model.BestResults, error) {
	var results model.BestResults
	err := c.withLock(ctx, func() error {
		raw, found, err := c.kv.Get(ctx, Key)
		if err != nil {
			return fmt.Errorf("failed to read best results: %w", err)
		}
		var repaired bool
		results, repaired = parse(raw)
		if !repaired && found {
			return nil
		}
		return c.put(ctx, encode(results))
	})
	if err != nil {
		if results == nil {
			results = model.DefaultBestResults()
		}
		return results, err
	}
	return results, nil
}

// RecordIfBetter stores wpm for tier when it is strictly greater than the
// stored value. It reports whether the value was stored.
func (c *Cache) RecordIfBetter(ctx context.Context, tier model.Tier, wpm int) (bool, error) {
	if !tier.Valid() {
		return false, fmt.Errorf("unknown tier %q", tier)
	}
	improved := false
	err := c.withLock(ctx, func() error {
		raw, _, err := c.kv.Get(ctx, Key)
		if err != nil {
			return fmt.Errorf("failed to read best results: %w", err)
		}
		results, repaired := parse(raw)
		if wpm <= results.WPM(tier) {
			return nil
		}
		doc := raw
		if repaired {
			doc = encode(results)
		}
		doc, err = sjson.Set(doc, string(tier)+".wpm", wpm)
		if err != nil {
			return fmt.Errorf("failed to update best results: %w", err)
		}
		if err := c.put(ctx, doc); err != nil {
			return err
		}
		improved = true
		return nil
	})
	return improved, err
}

// Reset removes every stored score.
func (c *Cache) Reset(ctx context.Context) error {
	return c.withLock(ctx, func() error {
		if err := c.kv.Delete(ctx, Key); err != nil {
			return fmt.Errorf("failed to reset best results: %w", err)
		}
		return nil
	})
}

func (c *Cache) put(ctx context.Context, doc string) error {
	if err := c.kv.Put(ctx, Key, doc); err != nil {
		return fmt.Errorf("failed to save best results: %w", err)
	}
	return nil
}

func (c *Cache) withLock(ctx context.Context, fn func() error) error {
	if c.lock == nil {
		return fn()
	}
	locked, err := c.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", c.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s", c.lock.Path())
	}
	defer func() { _ = c.lock.Unlock() }()
	return fn()
}

// parse reads every tier from raw and reports whether anything had to be
// defaulted.
func parse(raw string) (model.BestResults, bool) {
	results := model.DefaultBestResults()
	if !gjson.Valid(raw) {
		return results, true
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return results, true
	}
	repaired := false
	for _, tier := range model.Tiers() {
		v := doc.Get(string(tier) + ".wpm")
		if v.Type != gjson.Number {
			repaired = true
			continue
		}
		n := v.Int()
		if n < 0 {
			repaired = true
			continue
		}
		if float64(n) != v.Num {
			repaired = true
		}
		results[tier] = model.Best{WPM: int(n)}
	}
	return results, repaired
}

func encode(results model.BestResults) string {
	// A map of plain structs always marshals.
	data, _ := json.Marshal(results)
	return string(data)
}

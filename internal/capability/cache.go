package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/droidgen-labs/droidgen/internal/logging"
)

const cacheFileName = "toolchain-cache.json"

// Source produces a capability report. *Detector satisfies it.
type Source interface {
	Detect(ctx context.Context) Report
}

// CachedReport is a report persisted between runs.
type CachedReport struct {
	Report    Report    `json:"report"`
	CheckedAt time.Time `json:"checked_at"`
	// Key identifies the probe configuration that produced the report.
	Key string `json:"key"`
}

// LoadCache reads the cached report from dir. Returns nil, nil if the cache
// file does not exist.
func LoadCache(dir string) (*CachedReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading toolchain cache: %w", err)
	}

	var cache CachedReport
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing toolchain cache: %w", err)
	}
	if cache.Report.Versions == nil {
		return nil, fmt.Errorf("parsing toolchain cache: no versions recorded")
	}
	return &cache, nil
}

// SaveCache writes the report cache to dir.
func SaveCache(dir string, cache *CachedReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling toolchain cache: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFileName), data, 0644); err != nil {
		return fmt.Errorf("writing toolchain cache: %w", err)
	}
	return nil
}

// IsCacheStale returns true if the cache is nil, older than maxAge, or was
// produced under a different key.
func IsCacheStale(cache *CachedReport, key string, maxAge time.Duration, now time.Time) bool {
	if cache == nil || cache.Key != key {
		return true
	}
	return now.Sub(cache.CheckedAt) > maxAge
}

// CachingSource reuses a recent report instead of probing again. A zero
// MaxAge or Refresh always probes; the fresh report is saved either way.
type CachingSource struct {
	Source  Source
	Dir     string
	Key     string
	MaxAge  time.Duration
	Refresh bool
	Now     func() time.Time
}

// Detect returns a cached report when it is fresh, otherwise probes.
func (c *CachingSource) Detect(ctx context.Context) Report {
	logger := logging.GetLogger("capability")
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	if !c.Refresh && c.MaxAge > 0 {
		cache, err := LoadCache(c.Dir)
		if err != nil {
			logger.Debug().Err(err).Msg("Ignoring unreadable toolchain cache")
		} else if !IsCacheStale(cache, c.Key, c.MaxAge, now()) {
			logger.Debug().Time("checked_at", cache.CheckedAt).Msg("Using cached toolchain report")
			return cache.Report
		}
	}

	report := c.Source.Detect(ctx)
	if err := SaveCache(c.Dir, &CachedReport{Report: report, CheckedAt: now(), Key: c.Key}); err != nil {
		logger.Warn().Err(err).Msg("Failed to save toolchain cache")
	}
	return report
}

package updater

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/ctxlog"
	"github.com/packages-box/box/internal/pkgmanager"
	"github.com/packages-box/box/internal/preferences"
)

// DefaultCacheMaxAge is how long a cached latest version is trusted before
// the next check blocks on the registry.
const DefaultCacheMaxAge = 24 * time.Hour

// Dist-tags consulted on the registry.
const (
	tagLatest = "latest"
	tagNext   = "next"
)

// Versions is the outcome of a version check. Err records a failed
// foreground lookup; Latest then holds the cached value.
type Versions struct {
	Current string `json:"current"`
	Latest  string `json:"latest"`
	Err     error  `json:"-"`
}

// PreferencesStore is the subset of preferences.Store the checker uses.
type PreferencesStore interface {
	Load() (preferences.Document, error)
	Save(partial preferences.Document) error
}

// Checker computes Versions at most once per instance.
type Checker struct {
	current string
	pkg     string
	prefs   PreferencesStore
	remote  pkgmanager.RemoteVersions
	env     config.Env
	maxAge  time.Duration
	now     func() time.Time

	once   sync.Once
	result Versions
	bg     sync.WaitGroup
}

// Option configures a Checker.
type Option func(*Checker)

// WithEnv sets the environment switches. Test and debug modes skip the
// network entirely.
func WithEnv(env config.Env) Option {
	return func(c *Checker) {
		c.env = env
	}
}

// WithClock replaces time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		c.now = now
	}
}

// NewChecker creates a Checker for the running version current.
func NewChecker(current string, prefs PreferencesStore, remote pkgmanager.RemoteVersions, opts ...Option) *Checker {
	c := &Checker{
		current: current,
		pkg:     branding.PackageName(),
		prefs:   prefs,
		remote:  remote,
		maxAge:  DefaultCacheMaxAge,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetVersions returns the current and latest versions. The first call does
// the work; later calls return the same result. A failed lookup never
// surfaces as an error, only through Versions.Err.
func (c *Checker) GetVersions(ctx context.Context) Versions {
	c.once.Do(func() {
		c.result = c.check(ctx)
	})
	return c.result
}

// Wait blocks until any background refresh started by GetVersions finishes.
func (c *Checker) Wait() {
	c.bg.Wait()
}

func (c *Checker) check(ctx context.Context) Versions {
	if c.env.Hermetic() {
		return Versions{Current: c.current, Latest: c.current}
	}
	log := ctxlog.FromContext(ctx)

	doc, err := c.prefs.Load()
	if err != nil {
		log.Debug("loading cached version", "error", err)
		doc = preferences.Document{}
	}
	cached := doc.LatestVersion()
	if cached == "" {
		cached = c.current
	}

	if c.isStale(doc.LastChecked()) {
		latest, err := c.refresh(ctx, cached)
		if err != nil {
			log.Debug("foreground version check failed", "error", err)
			return Versions{Current: c.current, Latest: cached, Err: err}
		}
		return Versions{Current: c.current, Latest: latest}
	}

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		if _, err := c.refresh(context.WithoutCancel(ctx), cached); err != nil {
			log.Debug("background version check failed", "error", err)
		}
	}()
	return Versions{Current: c.current, Latest: cached}
}

// isStale reports whether more than maxAge has passed since lastChecked.
// A zero lastChecked is always stale.
func (c *Checker) isStale(lastChecked time.Time) bool {
	if lastChecked.IsZero() {
		return true
	}
	return c.now().Sub(lastChecked) > c.maxAge
}

// refresh queries the registry and persists the result when it is a valid
// version that differs from cached. Any other result yields cached.
func (c *Checker) refresh(ctx context.Context, cached string) (string, error) {
	version, err := c.remote.GetRemoteVersion(ctx, c.pkg, tagLatest)
	if err != nil {
		return "", fmt.Errorf("checking latest %s: %w", c.pkg, err)
	}
	if IsPrerelease(c.current) {
		next, err := c.remote.GetRemoteVersion(ctx, c.pkg, tagNext)
		if err != nil {
			return "", fmt.Errorf("checking next %s: %w", c.pkg, err)
		}
		version = newer(version, next)
	}

	if !IsValid(version) || version == cached {
		return cached, nil
	}
	err = c.prefs.Save(preferences.Document{
		preferences.KeyLatestVersion: version,
		preferences.KeyLastChecked:   c.now().UnixMilli(),
	})
	if err != nil {
		ctxlog.FromContext(ctx).Debug("caching latest version", "error", err)
	}
	return version, nil
}

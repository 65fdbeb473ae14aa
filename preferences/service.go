package preferences

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cyverse-de/notification-preferences/logging"
	"github.com/cyverse-de/notification-preferences/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var log = logging.Log.WithFields(logrus.Fields{"package": "preferences"})

const (
	// DefaultKey is the store key used when none is configured.
	DefaultKey = "notification_preferences"

	// DefaultCacheTTL is how long loaded preferences are served from memory before the store is read again.
	DefaultCacheTTL = 24 * time.Hour
)

// Options configures a Service. Zero values are replaced with defaults.
type Options struct {
	Key        string
	CacheTTL   time.Duration
	Now        func() time.Time
	Migrations *MigrationRegistry
}

// Service owns a single set of notification preferences. All reads and writes go through an in-memory cache that
// is kept consistent with the store.
type Service struct {
	store      Store
	key        string
	ttl        time.Duration
	now        func() time.Time
	migrations *MigrationRegistry

	// mu guards the cache fields below.
	mu         sync.Mutex
	cached     *model.NotificationPreferences
	cachedAt   time.Time
	generation uint64
	dirty      bool

	// writeMu serializes saves, including the read-modify-write cycle of the scoped mutators.
	writeMu   sync.Mutex
	loads     singleflight.Group
	observers observers
}

// New creates a preference service backed by the given store.
func New(store Store, opts Options) *Service {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Migrations == nil {
		opts.Migrations = NewMigrationRegistry()
	}

	return &Service{
		store:      store,
		key:        opts.Key,
		ttl:        opts.CacheTTL,
		now:        opts.Now,
		migrations: opts.Migrations,
	}
}

// Key returns the store key that the service persists its preferences under.
func (s *Service) Key() string {
	return s.key
}

// Load returns the current preferences. Fresh cached preferences are returned without touching the store. If the
// store holds nothing yet, the defaults are persisted and returned. Read failures and malformed stored data are
// logged and answered with the defaults, which are neither cached nor persisted so that a later call can retry.
func (s *Service) Load(ctx context.Context) *model.NotificationPreferences {
	if prefs := s.freshCache(); prefs != nil {
		return prefs
	}

	result, _, _ := s.loads.Do(s.key, func() (interface{}, error) {
		return s.loadFromStore(ctx, false), nil
	})
	return result.(loadResult).prefs.Clone()
}

// current returns the preferences for a read-modify-write cycle. Unlike Load it fails instead of falling back to
// the defaults, so that a mutator can't replace stored preferences it was unable to read. Must be called with
// writeMu held.
func (s *Service) current(ctx context.Context) (*model.NotificationPreferences, error) {
	if prefs := s.freshCache(); prefs != nil {
		return prefs, nil
	}

	result := s.loadFromStore(ctx, true)
	if result.err != nil {
		return nil, result.err
	}
	return result.prefs.Clone(), nil
}

func (s *Service) freshCache() *model.NotificationPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || s.now().Sub(s.cachedAt) >= s.ttl {
		return nil
	}
	return s.cached.Clone()
}

// loadResult is the outcome of a store read. If err is set, prefs holds the fallback defaults.
type loadResult struct {
	prefs *model.NotificationPreferences
	err   error
}

func (s *Service) loadFromStore(ctx context.Context, writeLocked bool) loadResult {
	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	entry := log.WithField("key", s.key)

	value, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		entry.WithError(err).Warn("unable to read notification preferences, using defaults")
		return loadResult{
			prefs: model.NewDefaults(s.now()),
			err:   errors.Wrap(err, "unable to read notification preferences"),
		}
	}

	if !found {
		if !writeLocked {
			s.writeMu.Lock()
			defer s.writeMu.Unlock()
		}
		return s.firstRun(ctx, generation)
	}

	prefs, migrated, err := s.decode(value)
	if err != nil {
		entry.WithError(err).Warn("stored notification preferences are unusable, using defaults")
		return loadResult{
			prefs: model.NewDefaults(s.now()),
			err:   errors.Wrap(ErrUnreadablePreferences, err.Error()),
		}
	}

	s.setCache(prefs, generation, migrated)
	return loadResult{prefs: prefs}
}

// firstRun persists the defaults for a store that held nothing when it was read. A save that landed after that
// read wins: its preferences are returned and the defaults are never written. Must be called with writeMu held.
func (s *Service) firstRun(ctx context.Context, generation uint64) loadResult {
	s.mu.Lock()
	moved := s.generation != generation
	s.mu.Unlock()

	if moved {
		if prefs := s.freshCache(); prefs != nil {
			return loadResult{prefs: prefs}
		}
		return s.loadFromStore(ctx, true)
	}

	defaults := model.NewDefaults(s.now())
	if err := s.persistDefaults(ctx, defaults, generation); err != nil {
		log.WithField("key", s.key).WithError(err).Warn("unable to persist default notification preferences")
	}
	return loadResult{prefs: defaults}
}

func (s *Service) persistDefaults(ctx context.Context, defaults *model.NotificationPreferences, generation uint64) error {
	encoded, err := encodeRecord(defaults, defaults.Version, s.now())
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, encoded); err != nil {
		return errors.Wrap(err, "unable to store default notification preferences")
	}
	s.setCache(defaults, generation, false)
	return nil
}

// decode turns a stored record into preferences, migrating older schema versions and back-filling fields that the
// stored data lacks from the defaults. The second return value is true if the data was migrated.
func (s *Service) decode(value string) (*model.NotificationPreferences, bool, error) {
	record, err := decodeRecord(value)
	if err != nil {
		return nil, false, err
	}

	data := record.Data
	from := record.dataVersion()
	migrated := from != model.CurrentSchemaVersion
	if migrated {
		var applied bool
		data, applied, err = s.migrations.Migrate(data, from, model.CurrentSchemaVersion)
		if err != nil {
			return nil, false, err
		}
		log.WithFields(logrus.Fields{
			"key":     s.key,
			"from":    from,
			"to":      model.CurrentSchemaVersion,
			"applied": applied,
		}).Info("migrating stored notification preferences")
	}

	prefs := model.NewDefaults(s.now())
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, false, errors.Wrap(err, "unable to decode stored notification preferences")
	}
	if err := model.Validate(prefs); err != nil {
		return nil, false, errors.Wrap(err, "stored notification preferences are malformed")
	}

	if migrated {
		prefs.Version = model.CurrentSchemaVersion
		prefs.LastUpdated = s.now()
	}

	return prefs, migrated, nil
}

// setCache caches preferences read from the store unless a save or refresh happened since the read began.
func (s *Service) setCache(prefs *model.NotificationPreferences, generation uint64, dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	s.cached = prefs.Clone()
	s.cachedAt = s.now()
	s.dirty = s.dirty || dirty
}

// Save stamps, persists and caches the preferences, then notifies every listener. A store failure is returned to
// the caller and leaves the cache untouched.
func (s *Service) Save(ctx context.Context, prefs *model.NotificationPreferences) error {
	s.writeMu.Lock()
	saved, err := s.save(ctx, prefs)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}

	s.observers.notify(saved)
	return nil
}

// save must be called with writeMu held.
func (s *Service) save(ctx context.Context, prefs *model.NotificationPreferences) (*model.NotificationPreferences, error) {
	if err := model.Validate(prefs); err != nil {
		return nil, errors.Wrap(ErrInvalidPreferences, err.Error())
	}

	now := s.now()
	saved := prefs.Clone()
	saved.LastUpdated = now
	saved.Version = model.CurrentSchemaVersion

	encoded, err := encodeRecord(saved, saved.Version, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, s.key, encoded); err != nil {
		log.WithField("key", s.key).WithError(err).Error("unable to save notification preferences")
		return nil, errors.Wrap(err, "unable to save notification preferences")
	}

	s.mu.Lock()
	s.generation++
	s.cached = saved.Clone()
	s.cachedAt = now
	s.dirty = false
	s.mu.Unlock()

	return saved, nil
}

// mutate loads the current preferences, applies fn and saves the result. It fails without saving if the stored
// preferences can't be read.
func (s *Service) mutate(ctx context.Context, fn func(prefs *model.NotificationPreferences) error) error {
	s.writeMu.Lock()
	prefs, err := s.current(ctx)
	if err != nil {
		s.writeMu.Unlock()
		return err
	}
	if err := fn(prefs); err != nil {
		s.writeMu.Unlock()
		return err
	}
	saved, err := s.save(ctx, prefs)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}

	s.observers.notify(saved)
	return nil
}

// Reset replaces the preferences with the defaults.
func (s *Service) Reset(ctx context.Context) error {
	return s.Save(ctx, model.NewDefaults(s.now()))
}

// Refresh discards the cache and reads the preferences from the store again.
func (s *Service) Refresh(ctx context.Context) *model.NotificationPreferences {
	s.mu.Lock()
	s.generation++
	s.cached = nil
	s.cachedAt = time.Time{}
	s.mu.Unlock()

	s.loads.Forget(s.key)
	return s.Load(ctx)
}

// Cached returns a copy of the cached preferences without any I/O, or nil if nothing has been loaded yet.
func (s *Service) Cached() *model.NotificationPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached.Clone()
}

// Dirty returns true if the cached preferences were migrated and haven't been saved since.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe registers a listener that is called after every successful save, in registration order. Listeners
// run synchronously on the saving goroutine. The returned function removes the listener.
func (s *Service) Subscribe(listener Listener) func() {
	return s.observers.add(listener)
}

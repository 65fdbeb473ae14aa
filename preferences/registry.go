package preferences

import (
	"strings"
	"sync"

	"github.com/cyverse-de/notification-preferences/model"
)

// UserListener is called after a user's preferences are saved.
type UserListener func(user string, prefs *model.NotificationPreferences) error

// Registry hands out one Service per user. All services share a store and options, and each persists its
// preferences under its own key.
type Registry struct {
	store     Store
	prefix    string
	opts      Options
	mu        sync.Mutex
	services  map[string]*Service
	listeners []UserListener
}

// NewRegistry creates a registry whose services store their preferences under `<prefix>:<user>`.
func NewRegistry(store Store, prefix string, opts Options) *Registry {
	if prefix == "" {
		prefix = DefaultKey
	}
	if opts.Migrations == nil {
		opts.Migrations = NewMigrationRegistry()
	}
	return &Registry{
		store:    store,
		prefix:   prefix,
		opts:     opts,
		services: make(map[string]*Service),
	}
}

// UserKey returns the store key for a user's preferences.
func (r *Registry) UserKey(user string) string {
	return r.prefix + ":" + normalizeUser(user)
}

func normalizeUser(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// For returns the service for a user, creating it on first use.
func (r *Registry) For(user string) *Service {
	user = normalizeUser(user)
	key := r.UserKey(user)

	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.services[key]; ok {
		return svc
	}

	opts := r.opts
	opts.Key = key
	svc := New(r.store, opts)
	for _, listener := range r.listeners {
		svc.Subscribe(bindUser(user, listener))
	}
	r.services[key] = svc

	return svc
}

// Subscribe attaches a listener to every existing and future service in the registry.
func (r *Registry) Subscribe(listener UserListener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, listener)
	for key, svc := range r.services {
		svc.Subscribe(bindUser(strings.TrimPrefix(key, r.prefix+":"), listener))
	}
}

func bindUser(user string, listener UserListener) Listener {
	return func(prefs *model.NotificationPreferences) error {
		return listener(user, prefs)
	}
}

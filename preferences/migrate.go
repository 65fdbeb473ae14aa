package preferences

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Transform converts stored preference data from one schema version to another. It operates on the decoded JSON
// object so that it can handle fields the current types no longer describe.
type Transform func(data map[string]interface{}) (map[string]interface{}, error)

type versionPair struct {
	from string
	to   string
}

// MigrationRegistry holds the schema transforms, keyed by source and target version.
type MigrationRegistry struct {
	mu         sync.RWMutex
	transforms map[versionPair]Transform
}

// NewMigrationRegistry returns an empty registry.
func NewMigrationRegistry() *MigrationRegistry {
	return &MigrationRegistry{transforms: make(map[versionPair]Transform)}
}

// Register adds the transform for a version pair, replacing any existing one.
func (r *MigrationRegistry) Register(from, to string, transform Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[versionPair{from: from, to: to}] = transform
}

// Lookup returns the transform for a version pair.
func (r *MigrationRegistry) Lookup(from, to string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transform, ok := r.transforms[versionPair{from: from, to: to}]
	return transform, ok
}

// Migrate applies the transform registered for the version pair to the stored data. The second return value
// is false if no transform was registered, in which case the data is returned unchanged.
func (r *MigrationRegistry) Migrate(data json.RawMessage, from, to string) (json.RawMessage, bool, error) {
	wrapMsg := "unable to migrate preferences from version `" + from + "` to `" + to + "`"

	transform, ok := r.Lookup(from, to)
	if !ok {
		return data, false, nil
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}

	migrated, err := transform(decoded)
	if err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}

	encoded, err := json.Marshal(migrated)
	if err != nil {
		return nil, false, errors.Wrap(err, wrapMsg)
	}

	return encoded, true, nil
}

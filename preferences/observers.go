package preferences

import (
	"sync"

	"github.com/cyverse-de/notification-preferences/model"
	"github.com/pkg/errors"
)

// Listener is called with a copy of the preferences after every successful save.
type Listener func(prefs *model.NotificationPreferences) error

type registeredListener struct {
	id       uint64
	listener Listener
}

// observers is the ordered list of listeners attached to a service.
type observers struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []registeredListener
}

func (o *observers) add(listener Listener) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, registeredListener{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *observers) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, registered := range o.listeners {
		if registered.id == id {
			o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
			return
		}
	}
}

func (o *observers) snapshot() []registeredListener {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]registeredListener{}, o.listeners...)
}

// notify calls every listener in registration order. Each call is isolated: a listener that fails or panics is
// logged and the remaining listeners still run.
func (o *observers) notify(prefs *model.NotificationPreferences) {
	for _, registered := range o.snapshot() {
		if err := callListener(registered.listener, prefs.Clone()); err != nil {
			log.WithError(err).WithField("listener", registered.id).Error("preference listener failed")
		}
	}
}

func callListener(listener Listener, prefs *model.NotificationPreferences) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("listener panicked: %v", r)
		}
	}()
	return listener(prefs)
}

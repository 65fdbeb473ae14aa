package handlers

import (
	"encoding/json"

	"github.com/cyverse-de/notification-preferences/model"
	"github.com/cyverse-de/notification-preferences/preferences"
	"github.com/pkg/errors"
)

// ChangeMessage is published whenever a user's preferences are saved.
type ChangeMessage struct {
	User        string                         `json:"user"`
	Preferences *model.NotificationPreferences `json:"preferences"`
}

// NewChangePublisher returns a listener that publishes every saved set of preferences.
func NewChangePublisher(publisher Publisher) preferences.UserListener {
	return func(user string, prefs *model.NotificationPreferences) error {
		body, err := json.Marshal(&ChangeMessage{User: user, Preferences: prefs})
		if err != nil {
			return errors.Wrap(err, "unable to serialize the preference change")
		}
		if err = publisher.Publish(ChangedRoutingKeyPrefix+user, body); err != nil {
			return errors.Wrapf(err, "unable to publish the preference change for %s", user)
		}
		return nil
	}
}

package handlers

import (
	"context"
	"encoding/json"

	"github.com/cyverse-de/notification-preferences/model"
	"github.com/cyverse-de/notification-preferences/preferences"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Sections of the preferences that an update request can change.
const (
	SectionGlobal   = "global"
	SectionCategory = "category"
	SectionDelivery = "delivery"
	SectionTiming   = "timing"
	SectionPriority = "priority"
	SectionAdvanced = "advanced"
	SectionReset    = "reset"
	SectionRefresh  = "refresh"
)

// UpdateRequest represents a deserialized request to change a user's preferences. Category is required for
// category updates and Channel for delivery method updates.
type UpdateRequest struct {
	User     string          `json:"user"`
	Section  string          `json:"section"`
	Category string          `json:"category,omitempty"`
	Channel  string          `json:"channel,omitempty"`
	Values   json.RawMessage `json:"values,omitempty"`
}

// Update is a message handler that applies preference changes.
type Update struct {
	services ServiceProvider
}

// NewUpdate returns a new update handler.
func NewUpdate(services ServiceProvider) *Update {
	return &Update{services: services}
}

// decodeValues decodes the values of an update request into dst.
func decodeValues(request *UpdateRequest, dst interface{}) error {
	if len(request.Values) == 0 {
		return NewUnrecoverableError("no values specified for the %s update", request.Section)
	}
	if err := json.Unmarshal(request.Values, dst); err != nil {
		return NewUnrecoverableError("unable to parse the %s update: %s", request.Section, err.Error())
	}
	return nil
}

// classify marks validation failures as unrecoverable and everything else, such as store failures, as
// recoverable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, invalid := range []error{
		preferences.ErrInvalidPreferences,
		preferences.ErrUnknownCategory,
		preferences.ErrUnknownChannel,
		preferences.ErrUnreadablePreferences,
		preferences.ErrInvalidTime,
		preferences.ErrInvalidEmail,
	} {
		if errors.Is(err, invalid) {
			return NewUnrecoverableError("rejected preference update: %s", err.Error())
		}
	}
	return NewRecoverableError("unable to update preferences: %s", err.Error())
}

// HandleMessage handles a single AMQP delivery.
func (h *Update) HandleMessage(ctx context.Context, delivery amqp.Delivery) error {

	// Parse the message body.
	var request UpdateRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}
	if request.User == "" {
		return NewUnrecoverableError("no user specified in the update request")
	}

	svc := h.services.For(request.User)
	log.WithFields(logrus.Fields{
		"user":    request.User,
		"section": request.Section,
	}).Info("updating notification preferences")

	switch request.Section {
	case SectionGlobal:
		var values struct {
			Enabled *bool `json:"enabled"`
		}
		if err := decodeValues(&request, &values); err != nil {
			return err
		}
		if values.Enabled == nil {
			return NewUnrecoverableError("no enabled flag specified for the global update")
		}
		return classify(svc.ToggleGlobal(ctx, *values.Enabled))

	case SectionCategory:
		var update model.CategoryRuleUpdate
		if err := decodeValues(&request, &update); err != nil {
			return err
		}
		return classify(svc.UpdateCategory(ctx, model.NotificationCategory(request.Category), update))

	case SectionDelivery:
		var update model.ChannelUpdate
		if err := decodeValues(&request, &update); err != nil {
			return err
		}
		return classify(svc.UpdateDeliveryMethod(ctx, model.DeliveryChannel(request.Channel), update))

	case SectionTiming:
		var update model.TimingUpdate
		if err := decodeValues(&request, &update); err != nil {
			return err
		}
		return classify(svc.UpdateTiming(ctx, update))

	case SectionPriority:
		var update model.PriorityFilterUpdate
		if err := decodeValues(&request, &update); err != nil {
			return err
		}
		return classify(svc.UpdatePriorityFilter(ctx, update))

	case SectionAdvanced:
		var update model.AdvancedUpdate
		if err := decodeValues(&request, &update); err != nil {
			return err
		}
		return classify(svc.UpdateAdvanced(ctx, update))

	case SectionReset:
		return classify(svc.Reset(ctx))

	case SectionRefresh:
		svc.Refresh(ctx)
		return nil

	default:
		return NewUnrecoverableError("unknown preference section: %s", request.Section)
	}
}

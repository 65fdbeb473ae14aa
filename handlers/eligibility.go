package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cyverse-de/notification-preferences/common"
	"github.com/cyverse-de/notification-preferences/model"
	"github.com/cyverse-de/notification-preferences/preferences"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// EligibilityRequest represents a deserialized request to check whether a notification should be delivered.
type EligibilityRequest struct {
	User      string `json:"user"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Timestamp string `json:"timestamp"`
}

// EligibilityResponse is published in reply to an eligibility request.
type EligibilityResponse struct {
	User      string               `json:"user"`
	Category  string               `json:"category"`
	Priority  string               `json:"priority"`
	Timestamp string               `json:"timestamp"`
	Decision  preferences.Decision `json:"decision"`
}

// Eligibility is a message handler that evaluates notifications against the recipient's preferences.
type Eligibility struct {
	services  ServiceProvider
	publisher Publisher
	now       func() time.Time
}

// NewEligibility returns a new eligibility handler.
func NewEligibility(services ServiceProvider, publisher Publisher) *Eligibility {
	return &Eligibility{services: services, publisher: publisher, now: time.Now}
}

// parseNotification validates an eligibility request and converts it to a notification.
func (h *Eligibility) parseNotification(request *EligibilityRequest) (*model.Notification, error) {
	if request.User == "" {
		return nil, NewUnrecoverableError("no user specified in the eligibility request")
	}

	category := model.NotificationCategory(request.Category)
	if !category.Valid() {
		return nil, NewUnrecoverableError("unknown notification category: %s", request.Category)
	}

	priority := model.PriorityLevel(request.Priority)
	if !priority.Valid() {
		return nil, NewUnrecoverableError("unknown notification priority: %s", request.Priority)
	}

	// The notification is evaluated at the current time unless the request says otherwise.
	timeCreated, ok, err := common.ParseTimestamp(request.Timestamp)
	if err != nil {
		return nil, NewUnrecoverableError("unable to parse timestamp: %s", err.Error())
	}
	if !ok {
		timeCreated = h.now()
	}

	return &model.Notification{
		User:        request.User,
		Category:    category,
		Priority:    priority,
		TimeCreated: timeCreated,
	}, nil
}

// HandleMessage handles a single AMQP delivery.
func (h *Eligibility) HandleMessage(ctx context.Context, delivery amqp.Delivery) error {

	// Parse the message body.
	var request EligibilityRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}
	notification, err := h.parseNotification(&request)
	if err != nil {
		return err
	}

	// Evaluate the notification.
	decision := h.services.For(notification.User).ShouldShowNotificationAt(
		ctx, notification.Category, notification.Priority, notification.TimeCreated,
	)
	log.WithFields(logrus.Fields{
		"user":       notification.User,
		"category":   notification.Category,
		"priority":   notification.Priority,
		"shouldShow": decision.ShouldShow,
	}).Debug("evaluated notification eligibility")

	// Publish the decision.
	response, err := json.Marshal(&EligibilityResponse{
		User:      notification.User,
		Category:  string(notification.Category),
		Priority:  string(notification.Priority),
		Timestamp: common.FormatTimestamp(notification.TimeCreated),
		Decision:  decision,
	})
	if err != nil {
		return NewUnrecoverableError("unable to serialize the eligibility decision: %s", err.Error())
	}
	err = h.publisher.Publish(DecisionRoutingKeyPrefix+notification.User, response)
	if err != nil {
		return NewRecoverableError("unable to publish the eligibility decision: %s", err.Error())
	}

	return nil
}

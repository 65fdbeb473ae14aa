package model

import "time"

// NotificationCategory classifies the origin of a notification.
type NotificationCategory string

// The notification categories known to the preference schema.
const (
	CategoryMaintenance NotificationCategory = "maintenance"
	CategoryPayment     NotificationCategory = "payment"
	CategoryTenant      NotificationCategory = "tenant"
	CategoryProperty    NotificationCategory = "property"
	CategorySystem      NotificationCategory = "system"
	CategoryInvoice     NotificationCategory = "invoice"
	CategoryContract    NotificationCategory = "contract"
)

// Categories lists every category in the schema, in display order.
var Categories = []NotificationCategory{
	CategoryMaintenance,
	CategoryPayment,
	CategoryTenant,
	CategoryProperty,
	CategorySystem,
	CategoryInvoice,
	CategoryContract,
}

// Valid returns true if the category is part of the schema.
func (c NotificationCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DeliveryChannel is a transport that a notification can be delivered through.
type DeliveryChannel string

// The delivery channels known to the preference schema.
const (
	ChannelPush  DeliveryChannel = "push"
	ChannelInApp DeliveryChannel = "inApp"
	ChannelEmail DeliveryChannel = "email"
)

// Channels lists every delivery channel in the schema.
var Channels = []DeliveryChannel{ChannelPush, ChannelInApp, ChannelEmail}

// Valid returns true if the channel is part of the schema.
func (c DeliveryChannel) Valid() bool {
	return c == ChannelPush || c == ChannelInApp || c == ChannelEmail
}

// Notification describes a single notification that is about to be delivered. Only the fields that take part in
// the eligibility decision are included.
type Notification struct {
	User        string
	Category    NotificationCategory
	Priority    PriorityLevel
	TimeCreated time.Time
}

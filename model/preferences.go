package model

import "time"

// CurrentSchemaVersion is the version stamped onto every saved set of preferences.
const CurrentSchemaVersion = "1.0.0"

// CategoryRule governs notifications in a single category.
type CategoryRule struct {
	Enabled         bool              `json:"enabled"`
	DeliveryMethods []DeliveryChannel `json:"deliveryMethods"`
	MinimumPriority PriorityLevel     `json:"minimumPriority"`
}

// PushSettings configures push delivery.
type PushSettings struct {
	Enabled   bool `json:"enabled"`
	Sound     bool `json:"sound"`
	Vibration bool `json:"vibration"`
	Badge     bool `json:"badge"`
}

// InAppSettings configures in-app delivery.
type InAppSettings struct {
	Enabled         bool `json:"enabled"`
	ShowUnreadCount bool `json:"showUnreadCount"`
}

// EmailSettings configures email delivery. The address is only used by delivery mechanics.
type EmailSettings struct {
	Enabled bool    `json:"enabled"`
	Address *string `json:"address,omitempty"`
	Digest  bool    `json:"digest"`
}

// ChannelSettings holds the per-channel configuration.
type ChannelSettings struct {
	Push  PushSettings  `json:"push"`
	InApp InAppSettings `json:"inApp"`
	Email EmailSettings `json:"email"`
}

// ChannelEnabled returns true if the given channel is switched on.
func (s ChannelSettings) ChannelEnabled(channel DeliveryChannel) bool {
	switch channel {
	case ChannelPush:
		return s.Push.Enabled
	case ChannelInApp:
		return s.InApp.Enabled
	case ChannelEmail:
		return s.Email.Enabled
	default:
		return false
	}
}

// QuietHours is a recurring daily suppression window. StartTime and EndTime use the HH:MM format; a window whose
// start is later than its end spans midnight.
type QuietHours struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DoNotDisturb suppresses everything until EndTime, or indefinitely if EndTime is nil.
type DoNotDisturb struct {
	Enabled bool       `json:"enabled"`
	EndTime *time.Time `json:"endTime,omitempty"`
}

// WeekendMode is stored with the preferences but is not consulted when deciding eligibility.
type WeekendMode struct {
	Enabled      bool                   `json:"enabled"`
	ReducedTypes []NotificationCategory `json:"reducedTypes"`
}

// BusinessHours restricts delivery to a daily window, optionally on weekdays only.
type BusinessHours struct {
	Enabled      bool   `json:"enabled"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	WeekdaysOnly bool   `json:"weekdaysOnly"`
}

// TimingConfig holds the temporal suppression rules.
type TimingConfig struct {
	QuietHours        QuietHours    `json:"quietHours"`
	DoNotDisturb      DoNotDisturb  `json:"doNotDisturb"`
	WeekendMode       WeekendMode   `json:"weekendMode"`
	BusinessHoursOnly BusinessHours `json:"businessHoursOnly"`
}

// PriorityFilterConfig is the global priority floor. UrgentOverride lets urgent notifications skip the priority
// check, but not the timing checks.
type PriorityFilterConfig struct {
	MinimumPriority PriorityLevel `json:"minimumPriority"`
	UrgentOverride  bool          `json:"urgentOverride"`
}

// AdvancedConfig holds settings for the notification list.
type AdvancedConfig struct {
	GroupSimilar     bool `json:"groupSimilar"`
	AutoMarkRead     bool `json:"autoMarkRead"`
	RetentionDays    int  `json:"retentionDays"`
	MaxNotifications int  `json:"maxNotifications"`
}

// NotificationPreferences is a user's complete notification configuration.
type NotificationPreferences struct {
	GlobalEnabled   bool                                  `json:"globalEnabled"`
	Categories      map[NotificationCategory]CategoryRule `json:"categories"`
	DeliveryMethods ChannelSettings                       `json:"deliveryMethods"`
	Timing          TimingConfig                          `json:"timing"`
	PriorityFilter  PriorityFilterConfig                  `json:"priorityFilter"`
	Advanced        AdvancedConfig                        `json:"advanced"`
	LastUpdated     time.Time                             `json:"lastUpdated"`
	Version         string                                `json:"version"`
}

// Clone returns a deep copy of the preferences.
func (p *NotificationPreferences) Clone() *NotificationPreferences {
	if p == nil {
		return nil
	}
	c := *p

	c.Categories = make(map[NotificationCategory]CategoryRule, len(p.Categories))
	for category, rule := range p.Categories {
		rule.DeliveryMethods = append([]DeliveryChannel{}, rule.DeliveryMethods...)
		c.Categories[category] = rule
	}

	if p.DeliveryMethods.Email.Address != nil {
		address := *p.DeliveryMethods.Email.Address
		c.DeliveryMethods.Email.Address = &address
	}
	if p.Timing.DoNotDisturb.EndTime != nil {
		endTime := *p.Timing.DoNotDisturb.EndTime
		c.Timing.DoNotDisturb.EndTime = &endTime
	}
	c.Timing.WeekendMode.ReducedTypes = append([]NotificationCategory{}, p.Timing.WeekendMode.ReducedTypes...)

	return &c
}

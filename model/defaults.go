package model

import "time"

// Default values that aren't simple booleans.
const (
	DefaultQuietHoursStart    = "22:00"
	DefaultQuietHoursEnd      = "07:00"
	DefaultBusinessHoursStart = "09:00"
	DefaultBusinessHoursEnd   = "17:00"
	DefaultRetentionDays      = 30
	DefaultMaxNotifications   = 100
)

// defaultCategoryPriority returns the minimum priority assigned to a category in the default preferences.
func defaultCategoryPriority(category NotificationCategory) PriorityLevel {
	switch category {
	case CategorySystem, CategoryContract:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// DefaultCategoryRule returns the rule assigned to a category in the default preferences.
func DefaultCategoryRule(category NotificationCategory) CategoryRule {
	return CategoryRule{
		Enabled:         true,
		DeliveryMethods: []DeliveryChannel{ChannelPush, ChannelInApp},
		MinimumPriority: defaultCategoryPriority(category),
	}
}

// NewDefaults returns a complete set of default preferences stamped with the given time.
func NewDefaults(now time.Time) *NotificationPreferences {
	categories := make(map[NotificationCategory]CategoryRule, len(Categories))
	for _, category := range Categories {
		categories[category] = DefaultCategoryRule(category)
	}

	return &NotificationPreferences{
		GlobalEnabled: true,
		Categories:    categories,
		DeliveryMethods: ChannelSettings{
			Push:  PushSettings{Enabled: true, Sound: true, Vibration: true, Badge: true},
			InApp: InAppSettings{Enabled: true, ShowUnreadCount: true},
			Email: EmailSettings{Enabled: false, Digest: false},
		},
		Timing: TimingConfig{
			QuietHours: QuietHours{
				Enabled:   false,
				StartTime: DefaultQuietHoursStart,
				EndTime:   DefaultQuietHoursEnd,
			},
			DoNotDisturb: DoNotDisturb{Enabled: false},
			WeekendMode: WeekendMode{
				Enabled:      false,
				ReducedTypes: []NotificationCategory{},
			},
			BusinessHoursOnly: BusinessHours{
				Enabled:      false,
				StartTime:    DefaultBusinessHoursStart,
				EndTime:      DefaultBusinessHoursEnd,
				WeekdaysOnly: true,
			},
		},
		PriorityFilter: PriorityFilterConfig{
			MinimumPriority: PriorityMedium,
			UrgentOverride:  true,
		},
		Advanced: AdvancedConfig{
			GroupSimilar:     true,
			AutoMarkRead:     false,
			RetentionDays:    DefaultRetentionDays,
			MaxNotifications: DefaultMaxNotifications,
		},
		LastUpdated: now,
		Version:     CurrentSchemaVersion,
	}
}

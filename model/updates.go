package model

// Partial updates. A nil field leaves the corresponding value untouched.

// CategoryRuleUpdate is a partial update of a CategoryRule.
type CategoryRuleUpdate struct {
	Enabled         *bool             `json:"enabled,omitempty"`
	DeliveryMethods []DeliveryChannel `json:"deliveryMethods,omitempty"`
	MinimumPriority *PriorityLevel    `json:"minimumPriority,omitempty"`
}

// Apply merges the update into the rule.
func (u CategoryRuleUpdate) Apply(rule CategoryRule) CategoryRule {
	if u.Enabled != nil {
		rule.Enabled = *u.Enabled
	}
	if u.DeliveryMethods != nil {
		rule.DeliveryMethods = append([]DeliveryChannel{}, u.DeliveryMethods...)
	}
	if u.MinimumPriority != nil {
		rule.MinimumPriority = *u.MinimumPriority
	}
	return rule
}

// ChannelUpdate is a partial update of the settings for a single delivery channel. Fields that don't apply to the
// channel being updated are ignored.
type ChannelUpdate struct {
	Enabled         *bool   `json:"enabled,omitempty"`
	Sound           *bool   `json:"sound,omitempty"`
	Vibration       *bool   `json:"vibration,omitempty"`
	Badge           *bool   `json:"badge,omitempty"`
	ShowUnreadCount *bool   `json:"showUnreadCount,omitempty"`
	Address         *string `json:"address,omitempty"`
	Digest          *bool   `json:"digest,omitempty"`
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Apply merges the update into the settings for the given channel.
func (u ChannelUpdate) Apply(settings ChannelSettings, channel DeliveryChannel) ChannelSettings {
	switch channel {
	case ChannelPush:
		setBool(&settings.Push.Enabled, u.Enabled)
		setBool(&settings.Push.Sound, u.Sound)
		setBool(&settings.Push.Vibration, u.Vibration)
		setBool(&settings.Push.Badge, u.Badge)
	case ChannelInApp:
		setBool(&settings.InApp.Enabled, u.Enabled)
		setBool(&settings.InApp.ShowUnreadCount, u.ShowUnreadCount)
	case ChannelEmail:
		setBool(&settings.Email.Enabled, u.Enabled)
		setBool(&settings.Email.Digest, u.Digest)
		if u.Address != nil {
			address := *u.Address
			settings.Email.Address = &address
		}
	}
	return settings
}

// TimingUpdate is a shallow partial update of the timing configuration: each non-nil window replaces the stored
// window wholesale.
type TimingUpdate struct {
	QuietHours        *QuietHours    `json:"quietHours,omitempty"`
	DoNotDisturb      *DoNotDisturb  `json:"doNotDisturb,omitempty"`
	WeekendMode       *WeekendMode   `json:"weekendMode,omitempty"`
	BusinessHoursOnly *BusinessHours `json:"businessHoursOnly,omitempty"`
}

// Apply merges the update into the timing configuration.
func (u TimingUpdate) Apply(timing TimingConfig) TimingConfig {
	if u.QuietHours != nil {
		timing.QuietHours = *u.QuietHours
	}
	if u.DoNotDisturb != nil {
		timing.DoNotDisturb = *u.DoNotDisturb
	}
	if u.WeekendMode != nil {
		timing.WeekendMode = *u.WeekendMode
	}
	if u.BusinessHoursOnly != nil {
		timing.BusinessHoursOnly = *u.BusinessHoursOnly
	}
	return timing
}

// PriorityFilterUpdate is a partial update of the global priority filter.
type PriorityFilterUpdate struct {
	MinimumPriority *PriorityLevel `json:"minimumPriority,omitempty"`
	UrgentOverride  *bool          `json:"urgentOverride,omitempty"`
}

// Apply merges the update into the priority filter.
func (u PriorityFilterUpdate) Apply(filter PriorityFilterConfig) PriorityFilterConfig {
	if u.MinimumPriority != nil {
		filter.MinimumPriority = *u.MinimumPriority
	}
	setBool(&filter.UrgentOverride, u.UrgentOverride)
	return filter
}

// AdvancedUpdate is a partial update of the advanced settings.
type AdvancedUpdate struct {
	GroupSimilar     *bool `json:"groupSimilar,omitempty"`
	AutoMarkRead     *bool `json:"autoMarkRead,omitempty"`
	RetentionDays    *int  `json:"retentionDays,omitempty"`
	MaxNotifications *int  `json:"maxNotifications,omitempty"`
}

// Apply merges the update into the advanced settings.
func (u AdvancedUpdate) Apply(advanced AdvancedConfig) AdvancedConfig {
	setBool(&advanced.GroupSimilar, u.GroupSimilar)
	setBool(&advanced.AutoMarkRead, u.AutoMarkRead)
	if u.RetentionDays != nil {
		advanced.RetentionDays = *u.RetentionDays
	}
	if u.MaxNotifications != nil {
		advanced.MaxNotifications = *u.MaxNotifications
	}
	return advanced
}

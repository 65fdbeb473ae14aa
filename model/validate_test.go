package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NotificationPreferences)
	}{
		{"missing category", func(p *NotificationPreferences) { delete(p.Categories, CategoryInvoice) }},
		{"unknown category", func(p *NotificationPreferences) { p.Categories["parking"] = DefaultCategoryRule("parking") }},
		{"unknown category priority", func(p *NotificationPreferences) {
			rule := p.Categories[CategoryTenant]
			rule.MinimumPriority = "critical"
			p.Categories[CategoryTenant] = rule
		}},
		{"unknown delivery method", func(p *NotificationPreferences) {
			rule := p.Categories[CategoryTenant]
			rule.DeliveryMethods = []DeliveryChannel{"sms"}
			p.Categories[CategoryTenant] = rule
		}},
		{"unknown global priority", func(p *NotificationPreferences) { p.PriorityFilter.MinimumPriority = "" }},
		{"bad quiet hours", func(p *NotificationPreferences) { p.Timing.QuietHours.StartTime = "10pm" }},
		{"bad business hours", func(p *NotificationPreferences) { p.Timing.BusinessHoursOnly.EndTime = "25:00" }},
		{"bad weekend category", func(p *NotificationPreferences) {
			p.Timing.WeekendMode.ReducedTypes = []NotificationCategory{"parking"}
		}},
		{"negative retention", func(p *NotificationPreferences) { p.Advanced.RetentionDays = -1 }},
		{"negative maximum", func(p *NotificationPreferences) { p.Advanced.MaxNotifications = -5 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prefs := NewDefaults(time.Now())
			test.mutate(prefs)
			assert.Error(t, Validate(prefs))
		})
	}

	assert.Error(t, Validate(nil))
}

func TestUpdatesApply(t *testing.T) {
	assert := assert.New(t)

	disabled := false
	high := PriorityHigh
	rule := CategoryRuleUpdate{Enabled: &disabled, MinimumPriority: &high}.Apply(DefaultCategoryRule(CategoryPayment))
	assert.False(rule.Enabled)
	assert.Equal(PriorityHigh, rule.MinimumPriority)
	assert.Equal([]DeliveryChannel{ChannelPush, ChannelInApp}, rule.DeliveryMethods)

	// Fields that don't belong to the channel are ignored.
	address := "tenant@example.com"
	enabled := true
	settings := NewDefaults(time.Now()).DeliveryMethods
	updated := ChannelUpdate{Enabled: &enabled, Address: &address, Sound: &disabled}.Apply(settings, ChannelEmail)
	assert.True(updated.Email.Enabled)
	assert.Equal(address, *updated.Email.Address)
	assert.True(updated.Push.Sound)

	timing := TimingUpdate{QuietHours: &QuietHours{Enabled: true, StartTime: "23:00", EndTime: "06:00"}}.
		Apply(NewDefaults(time.Now()).Timing)
	assert.Equal(QuietHours{Enabled: true, StartTime: "23:00", EndTime: "06:00"}, timing.QuietHours)
	assert.False(timing.BusinessHoursOnly.Enabled)

	days := 7
	advanced := AdvancedUpdate{RetentionDays: &days}.Apply(NewDefaults(time.Now()).Advanced)
	assert.Equal(7, advanced.RetentionDays)
	assert.Equal(DefaultMaxNotifications, advanced.MaxNotifications)

	filter := PriorityFilterUpdate{UrgentOverride: &disabled}.Apply(PriorityFilterConfig{MinimumPriority: PriorityLow})
	assert.Equal(PriorityFilterConfig{MinimumPriority: PriorityLow, UrgentOverride: false}, filter)
}

package preferences

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cyverse-de/notification-preferences/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at returns a timestamp on Wednesday, 6 March 2024 at the given time of day.
func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 6, hour, minute, 0, 0, time.UTC)
}

func testPrefs() *model.NotificationPreferences {
	return model.NewDefaults(at(9, 0))
}

func TestEligibleByDefault(t *testing.T) {
	decision := EvaluateEligibility(testPrefs(), model.CategoryMaintenance, model.PriorityMedium, at(12, 0))
	assert.Equal(t, Decision{
		ShouldShow:     true,
		AllowedMethods: []model.DeliveryChannel{model.ChannelPush, model.ChannelInApp},
		Reasons:        []string{},
	}, decision)
}

func TestEligibilityIsDeterministic(t *testing.T) {
	prefs := testPrefs()
	prefs.Timing.QuietHours = model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"}

	for _, timestamp := range []time.Time{at(23, 30), at(12, 0)} {
		first := EvaluateEligibility(prefs, model.CategoryPayment, model.PriorityHigh, timestamp)
		second := EvaluateEligibility(prefs, model.CategoryPayment, model.PriorityHigh, timestamp)
		assert.Equal(t, first, second)
	}
}

func TestGlobalGate(t *testing.T) {
	prefs := testPrefs()
	prefs.GlobalEnabled = false

	// Nothing else matters once notifications are switched off globally.
	for _, priority := range []model.PriorityLevel{model.PriorityLow, model.PriorityUrgent} {
		for _, category := range model.Categories {
			decision := EvaluateEligibility(prefs, category, priority, at(12, 0))
			assert.False(t, decision.ShouldShow)
			assert.Equal(t, []string{ReasonGlobalDisabled}, decision.Reasons)
			assert.Empty(t, decision.AllowedMethods)
		}
	}
}

func TestCategoryGate(t *testing.T) {
	prefs := testPrefs()
	rule := prefs.Categories[model.CategoryInvoice]
	rule.Enabled = false
	prefs.Categories[model.CategoryInvoice] = rule

	decision := EvaluateEligibility(prefs, model.CategoryInvoice, model.PriorityUrgent, at(12, 0))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{"invoice notifications disabled"}, decision.Reasons)

	// A category without a rule is treated as disabled.
	delete(prefs.Categories, model.CategoryTenant)
	decision = EvaluateEligibility(prefs, model.CategoryTenant, model.PriorityHigh, at(12, 0))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{"tenant notifications disabled"}, decision.Reasons)
}

func TestPriorityGate(t *testing.T) {
	tests := []struct {
		name           string
		categoryMin    model.PriorityLevel
		globalMin      model.PriorityLevel
		urgentOverride bool
		priority       model.PriorityLevel
		expected       bool
	}{
		{"meets both floors", model.PriorityMedium, model.PriorityMedium, true, model.PriorityMedium, true},
		{"below category floor", model.PriorityHigh, model.PriorityLow, false, model.PriorityMedium, false},
		{"below global floor", model.PriorityLow, model.PriorityHigh, false, model.PriorityMedium, false},
		{"urgent with override", model.PriorityHigh, model.PriorityHigh, true, model.PriorityUrgent, true},
		{"urgent without override", model.PriorityHigh, model.PriorityHigh, false, model.PriorityUrgent, true},
		{"override only applies to urgent", model.PriorityLow, model.PriorityMedium, true, model.PriorityLow, false},
		{"unknown priority", model.PriorityLow, model.PriorityLow, true, model.PriorityLevel("critical"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prefs := testPrefs()
			rule := prefs.Categories[model.CategoryProperty]
			rule.MinimumPriority = test.categoryMin
			prefs.Categories[model.CategoryProperty] = rule
			prefs.PriorityFilter = model.PriorityFilterConfig{
				MinimumPriority: test.globalMin,
				UrgentOverride:  test.urgentOverride,
			}

			reason := checkPriority(prefs, rule, test.priority)
			assert.Equal(t, test.expected, reason == "", "unexpected reason: %q", reason)

			decision := EvaluateEligibility(prefs, model.CategoryProperty, test.priority, at(12, 0))
			assert.Equal(t, test.expected, decision.ShouldShow)
		})
	}
}

func TestPriorityGateReason(t *testing.T) {
	prefs := testPrefs()
	decision := EvaluateEligibility(prefs, model.CategorySystem, model.PriorityMedium, at(12, 0))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{fmt.Sprintf(priorityTooLowTemplate, model.PriorityMedium, model.PriorityHigh)}, decision.Reasons)
}

func TestUrgentOverrideDoesNotBypassEarlierGates(t *testing.T) {
	prefs := testPrefs()
	rule := prefs.Categories[model.CategoryPayment]
	rule.Enabled = false
	prefs.Categories[model.CategoryPayment] = rule

	decision := EvaluateEligibility(prefs, model.CategoryPayment, model.PriorityUrgent, at(12, 0))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{"payment notifications disabled"}, decision.Reasons)
}

func TestUrgentOverrideDoesNotBypassTiming(t *testing.T) {
	prefs := testPrefs()
	prefs.Timing.QuietHours = model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"}

	decision := EvaluateEligibility(prefs, model.CategoryMaintenance, model.PriorityUrgent, at(23, 30))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{ReasonQuietHours}, decision.Reasons)

	prefs = testPrefs()
	prefs.Timing.DoNotDisturb = model.DoNotDisturb{Enabled: true}
	decision = EvaluateEligibility(prefs, model.CategoryMaintenance, model.PriorityUrgent, at(12, 0))
	assert.Equal(t, []string{ReasonDoNotDisturb}, decision.Reasons)
}

func TestDoNotDisturb(t *testing.T) {
	endTime := at(15, 0)
	tests := []struct {
		name     string
		dnd      model.DoNotDisturb
		at       time.Time
		expected string
	}{
		{"disabled", model.DoNotDisturb{Enabled: false}, at(12, 0), ""},
		{"no end time", model.DoNotDisturb{Enabled: true}, at(12, 0), ReasonDoNotDisturb},
		{"before end time", model.DoNotDisturb{Enabled: true, EndTime: &endTime}, at(14, 59), ReasonDoNotDisturb},
		{"at end time", model.DoNotDisturb{Enabled: true, EndTime: &endTime}, at(15, 0), ""},
		{"after end time", model.DoNotDisturb{Enabled: true, EndTime: &endTime}, at(16, 0), ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, checkDoNotDisturb(test.dnd, test.at))
		})
	}
}

func TestBusinessHours(t *testing.T) {
	saturday := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	weekdays := model.BusinessHours{Enabled: true, StartTime: "09:00", EndTime: "17:00", WeekdaysOnly: true}
	everyDay := model.BusinessHours{Enabled: true, StartTime: "09:00", EndTime: "17:00", WeekdaysOnly: false}

	tests := []struct {
		name     string
		hours    model.BusinessHours
		at       time.Time
		expected string
	}{
		{"disabled", model.BusinessHours{Enabled: false, StartTime: "09:00", EndTime: "17:00"}, at(3, 0), ""},
		{"inside", weekdays, at(12, 0), ""},
		{"at start", weekdays, at(9, 0), ""},
		{"at end", weekdays, at(17, 0), ""},
		{"before start", weekdays, at(8, 59), ReasonOutsideBusiness},
		{"after end", weekdays, at(17, 1), ReasonOutsideBusiness},
		{"saturday", weekdays, saturday, ReasonOutsideWeekend},
		{"sunday", weekdays, sunday, ReasonOutsideWeekend},
		{"saturday allowed", everyDay, saturday, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, checkBusinessHours(test.hours, test.at))
		})
	}
}

func TestQuietHours(t *testing.T) {
	overnight := model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"}
	sameDay := model.QuietHours{Enabled: true, StartTime: "13:00", EndTime: "15:00"}

	tests := []struct {
		name     string
		quiet    model.QuietHours
		at       time.Time
		expected string
	}{
		{"overnight late evening", overnight, at(23, 30), ReasonQuietHours},
		{"overnight early morning", overnight, at(6, 0), ReasonQuietHours},
		{"overnight at start", overnight, at(22, 0), ReasonQuietHours},
		{"overnight at end", overnight, at(7, 0), ReasonQuietHours},
		{"overnight midday", overnight, at(12, 0), ""},
		{"same day inside", sameDay, at(14, 0), ReasonQuietHours},
		{"same day after", sameDay, at(16, 0), ""},
		{"same day before", sameDay, at(12, 59), ""},
		{"disabled", model.QuietHours{Enabled: false, StartTime: "00:00", EndTime: "23:59"}, at(12, 0), ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, checkQuietHours(test.quiet, test.at))
		})
	}
}

func TestQuietHoursUseTimestampLocation(t *testing.T) {
	quiet := model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"}

	// Noon UTC is 11 PM in a UTC+11 zone.
	zone := time.FixedZone("UTC+11", 11*60*60)
	assert.Equal(t, ReasonQuietHours, checkQuietHours(quiet, at(12, 0).In(zone)))
	assert.Equal(t, "", checkQuietHours(quiet, at(12, 0)))
}

func TestTimingGateOrder(t *testing.T) {
	prefs := testPrefs()
	prefs.Timing.DoNotDisturb = model.DoNotDisturb{Enabled: true}
	prefs.Timing.BusinessHoursOnly = model.BusinessHours{Enabled: true, StartTime: "09:00", EndTime: "17:00"}
	prefs.Timing.QuietHours = model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"}

	assert.Equal(t, ReasonDoNotDisturb, checkTiming(prefs.Timing, at(23, 0)))

	prefs.Timing.DoNotDisturb.Enabled = false
	assert.Equal(t, ReasonOutsideBusiness, checkTiming(prefs.Timing, at(23, 0)))

	prefs.Timing.BusinessHoursOnly.Enabled = false
	assert.Equal(t, ReasonQuietHours, checkTiming(prefs.Timing, at(23, 0)))
}

func TestWeekendModeIsNotConsulted(t *testing.T) {
	prefs := testPrefs()
	prefs.Timing.WeekendMode = model.WeekendMode{
		Enabled:      true,
		ReducedTypes: []model.NotificationCategory{model.CategoryMaintenance},
	}
	saturday := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

	decision := EvaluateEligibility(prefs, model.CategoryMaintenance, model.PriorityMedium, saturday)
	assert.True(t, decision.ShouldShow)
}

func TestDeliveryMethodResolution(t *testing.T) {
	prefs := testPrefs()
	rule := prefs.Categories[model.CategoryPayment]
	rule.DeliveryMethods = []model.DeliveryChannel{model.ChannelPush, model.ChannelEmail}
	prefs.Categories[model.CategoryPayment] = rule
	prefs.DeliveryMethods.Push.Enabled = false
	prefs.DeliveryMethods.Email.Enabled = false

	decision := EvaluateEligibility(prefs, model.CategoryPayment, model.PriorityHigh, at(12, 0))
	assert.Equal(t, Decision{
		ShouldShow:     false,
		AllowedMethods: []model.DeliveryChannel{},
		Reasons:        []string{ReasonNoDeliveryMethods},
	}, decision)

	// Enabling email lets it through on that channel only.
	prefs.DeliveryMethods.Email.Enabled = true
	decision = EvaluateEligibility(prefs, model.CategoryPayment, model.PriorityHigh, at(12, 0))
	assert.True(t, decision.ShouldShow)
	assert.Equal(t, []model.DeliveryChannel{model.ChannelEmail}, decision.AllowedMethods)
}

func TestDeliveryMethodResolutionDeduplicates(t *testing.T) {
	prefs := testPrefs()
	rule := prefs.Categories[model.CategoryTenant]
	rule.DeliveryMethods = []model.DeliveryChannel{model.ChannelInApp, model.ChannelPush, model.ChannelInApp}

	methods := resolveDeliveryMethods(prefs, rule)
	assert.Equal(t, []model.DeliveryChannel{model.ChannelInApp, model.ChannelPush}, methods)
}

func TestServiceShouldShowNotification(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	svc := newTestService(NewMemoryStore(), clock)

	require.NoError(t, svc.UpdateTiming(ctx, model.TimingUpdate{
		QuietHours: &model.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "07:00"},
	}))

	// The fake clock reads 10:30.
	assert.True(t, svc.ShouldShowNotification(ctx, model.CategoryMaintenance, model.PriorityHigh).ShouldShow)

	decision := svc.ShouldShowNotificationAt(ctx, model.CategoryMaintenance, model.PriorityHigh, at(23, 30))
	assert.False(t, decision.ShouldShow)
	assert.Equal(t, []string{ReasonQuietHours}, decision.Reasons)
}

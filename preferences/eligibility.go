package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/cyverse-de/notification-preferences/common"
	"github.com/cyverse-de/notification-preferences/model"
)

// Reasons reported when a notification is suppressed.
const (
	ReasonGlobalDisabled     = "Global notifications disabled"
	ReasonDoNotDisturb       = "Do Not Disturb mode active"
	ReasonOutsideWeekend     = "Outside business hours (weekend)"
	ReasonOutsideBusiness    = "Outside business hours"
	ReasonQuietHours         = "Quiet hours active"
	ReasonNoDeliveryMethods  = "No delivery methods enabled"
	categoryDisabledTemplate = "%s notifications disabled"
	priorityTooLowTemplate   = "Priority %s is below the minimum of %s"
)

// Decision is the outcome of an eligibility check.
type Decision struct {
	ShouldShow     bool                    `json:"shouldShow"`
	AllowedMethods []model.DeliveryChannel `json:"allowedMethods"`
	Reasons        []string                `json:"reasons"`
}

func reject(reason string) Decision {
	return Decision{
		ShouldShow:     false,
		AllowedMethods: []model.DeliveryChannel{},
		Reasons:        []string{reason},
	}
}

// EvaluateEligibility decides whether a notification with the given category and priority should be delivered at
// the given time, and through which channels. The checks run in a fixed order and stop at the first one that
// fails. It has no side effects.
func EvaluateEligibility(
	prefs *model.NotificationPreferences,
	category model.NotificationCategory,
	priority model.PriorityLevel,
	at time.Time,
) Decision {
	if reason := checkGlobal(prefs); reason != "" {
		return reject(reason)
	}

	rule, reason := checkCategory(prefs, category)
	if reason != "" {
		return reject(reason)
	}

	if reason := checkPriority(prefs, rule, priority); reason != "" {
		return reject(reason)
	}

	if reason := checkTiming(prefs.Timing, at); reason != "" {
		return reject(reason)
	}

	methods := resolveDeliveryMethods(prefs, rule)
	if len(methods) == 0 {
		return reject(ReasonNoDeliveryMethods)
	}

	return Decision{ShouldShow: true, AllowedMethods: methods, Reasons: []string{}}
}

func checkGlobal(prefs *model.NotificationPreferences) string {
	if !prefs.GlobalEnabled {
		return ReasonGlobalDisabled
	}
	return ""
}

func checkCategory(prefs *model.NotificationPreferences, category model.NotificationCategory) (model.CategoryRule, string) {
	rule, ok := prefs.Categories[category]
	if !ok || !rule.Enabled {
		return rule, fmt.Sprintf(categoryDisabledTemplate, category)
	}
	return rule, ""
}

// checkPriority compares the priority against the higher of the category and global floors. Urgent notifications
// skip this check entirely when the urgent override is on.
func checkPriority(prefs *model.NotificationPreferences, rule model.CategoryRule, priority model.PriorityLevel) string {
	if priority == model.PriorityUrgent && prefs.PriorityFilter.UrgentOverride {
		return ""
	}

	floor := model.MaxPriority(rule.MinimumPriority, prefs.PriorityFilter.MinimumPriority)
	if priority.Rank() < floor.Rank() {
		return fmt.Sprintf(priorityTooLowTemplate, priority, floor)
	}
	return ""
}

// checkTiming applies the temporal suppression rules. It applies to every priority, including urgent.
func checkTiming(timing model.TimingConfig, at time.Time) string {
	if reason := checkDoNotDisturb(timing.DoNotDisturb, at); reason != "" {
		return reason
	}
	if reason := checkBusinessHours(timing.BusinessHoursOnly, at); reason != "" {
		return reason
	}
	return checkQuietHours(timing.QuietHours, at)
}

func checkDoNotDisturb(dnd model.DoNotDisturb, at time.Time) string {
	if dnd.Enabled && (dnd.EndTime == nil || dnd.EndTime.After(at)) {
		return ReasonDoNotDisturb
	}
	return ""
}

func checkBusinessHours(hours model.BusinessHours, at time.Time) string {
	if !hours.Enabled {
		return ""
	}

	if hours.WeekdaysOnly {
		switch at.Weekday() {
		case time.Saturday, time.Sunday:
			return ReasonOutsideWeekend
		}
	}

	start, end, ok := parseWindow(hours.StartTime, hours.EndTime)
	if !ok {
		return ""
	}
	current := common.ClockValue(at)
	if current < start || current > end {
		return ReasonOutsideBusiness
	}
	return ""
}

func checkQuietHours(quiet model.QuietHours, at time.Time) string {
	if !quiet.Enabled {
		return ""
	}

	start, end, ok := parseWindow(quiet.StartTime, quiet.EndTime)
	if !ok {
		return ""
	}

	current := common.ClockValue(at)
	var active bool
	if start > end {
		// The window spans midnight.
		active = current >= start || current <= end
	} else {
		active = current >= start && current <= end
	}

	if active {
		return ReasonQuietHours
	}
	return ""
}

// parseWindow parses both ends of a daily window. Validation rejects malformed windows before they're stored, so
// a window that still fails to parse is ignored.
func parseWindow(startTime, endTime string) (int, int, bool) {
	start, err := common.ParseClock(startTime)
	if err != nil {
		return 0, 0, false
	}
	end, err := common.ParseClock(endTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// resolveDeliveryMethods returns the category's delivery methods whose channels are enabled, in the order the
// category lists them.
func resolveDeliveryMethods(prefs *model.NotificationPreferences, rule model.CategoryRule) []model.DeliveryChannel {
	methods := []model.DeliveryChannel{}
	seen := make(map[model.DeliveryChannel]bool, len(rule.DeliveryMethods))
	for _, channel := range rule.DeliveryMethods {
		if seen[channel] || !prefs.DeliveryMethods.ChannelEnabled(channel) {
			continue
		}
		seen[channel] = true
		methods = append(methods, channel)
	}
	return methods
}

// ShouldShowNotification evaluates eligibility against the current preferences at the current time.
func (s *Service) ShouldShowNotification(
	ctx context.Context,
	category model.NotificationCategory,
	priority model.PriorityLevel,
) Decision {
	return s.ShouldShowNotificationAt(ctx, category, priority, s.now())
}

// ShouldShowNotificationAt evaluates eligibility against the current preferences at the given time.
func (s *Service) ShouldShowNotificationAt(
	ctx context.Context,
	category model.NotificationCategory,
	priority model.PriorityLevel,
	at time.Time,
) Decision {
	return EvaluateEligibility(s.Load(ctx), category, priority, at)
}

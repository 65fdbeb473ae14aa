package model

import (
	"github.com/cyverse-de/notification-preferences/common"
	"github.com/pkg/errors"
)

// Validate checks the structure of a set of preferences, returning the first problem found.
func Validate(prefs *NotificationPreferences) error {
	if prefs == nil {
		return errors.New("preferences are missing")
	}

	// Every category needs exactly one rule, and unknown categories aren't allowed.
	for _, category := range Categories {
		rule, ok := prefs.Categories[category]
		if !ok {
			return errors.Errorf("no rule for category `%s`", category)
		}
		if err := validateRule(category, rule); err != nil {
			return err
		}
	}
	for category := range prefs.Categories {
		if !category.Valid() {
			return errors.Errorf("unknown category `%s`", category)
		}
	}

	if !prefs.PriorityFilter.MinimumPriority.Valid() {
		return errors.Errorf("unknown global minimum priority `%s`", prefs.PriorityFilter.MinimumPriority)
	}

	// Timing windows.
	timing := prefs.Timing
	if err := validateWindow("quiet hours", timing.QuietHours.StartTime, timing.QuietHours.EndTime); err != nil {
		return err
	}
	businessHours := timing.BusinessHoursOnly
	if err := validateWindow("business hours", businessHours.StartTime, businessHours.EndTime); err != nil {
		return err
	}
	for _, category := range timing.WeekendMode.ReducedTypes {
		if !category.Valid() {
			return errors.Errorf("unknown weekend mode category `%s`", category)
		}
	}

	if prefs.Advanced.RetentionDays < 0 {
		return errors.Errorf("retention days must not be negative: %d", prefs.Advanced.RetentionDays)
	}
	if prefs.Advanced.MaxNotifications < 0 {
		return errors.Errorf("maximum notifications must not be negative: %d", prefs.Advanced.MaxNotifications)
	}

	return nil
}

func validateRule(category NotificationCategory, rule CategoryRule) error {
	if !rule.MinimumPriority.Valid() {
		return errors.Errorf("unknown minimum priority `%s` for category `%s`", rule.MinimumPriority, category)
	}
	for _, channel := range rule.DeliveryMethods {
		if !channel.Valid() {
			return errors.Errorf("unknown delivery method `%s` for category `%s`", channel, category)
		}
	}
	return nil
}

func validateWindow(name, start, end string) error {
	if _, err := common.ParseClock(start); err != nil {
		return errors.Wrapf(err, "invalid %s start", name)
	}
	if _, err := common.ParseClock(end); err != nil {
		return errors.Wrapf(err, "invalid %s end", name)
	}
	return nil
}

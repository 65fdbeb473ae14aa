package preferences

import (
	"context"

	"github.com/cyverse-de/notification-preferences/common"
	"github.com/cyverse-de/notification-preferences/model"
	"github.com/pkg/errors"
)

// UpdateCategory merges a partial update into the rule for a single category.
func (s *Service) UpdateCategory(ctx context.Context, category model.NotificationCategory, update model.CategoryRuleUpdate) error {
	if !category.Valid() {
		return errors.Wrap(ErrUnknownCategory, string(category))
	}

	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		rule, ok := prefs.Categories[category]
		if !ok {
			rule = model.DefaultCategoryRule(category)
		}
		prefs.Categories[category] = update.Apply(rule)
		return nil
	})
}

// UpdateDeliveryMethod merges a partial update into the settings for a single delivery channel.
func (s *Service) UpdateDeliveryMethod(ctx context.Context, channel model.DeliveryChannel, update model.ChannelUpdate) error {
	if !channel.Valid() {
		return errors.Wrap(ErrUnknownChannel, string(channel))
	}
	if channel == model.ChannelEmail && update.Address != nil && *update.Address != "" {
		if err := common.ValidateEmailAddress(*update.Address); err != nil {
			return errors.Wrap(ErrInvalidEmail, err.Error())
		}
	}

	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		prefs.DeliveryMethods = update.Apply(prefs.DeliveryMethods, channel)
		return nil
	})
}

// UpdateTiming replaces the timing windows present in the update.
func (s *Service) UpdateTiming(ctx context.Context, update model.TimingUpdate) error {
	if update.QuietHours != nil {
		if err := validateClocks(update.QuietHours.StartTime, update.QuietHours.EndTime); err != nil {
			return err
		}
	}
	if update.BusinessHoursOnly != nil {
		if err := validateClocks(update.BusinessHoursOnly.StartTime, update.BusinessHoursOnly.EndTime); err != nil {
			return err
		}
	}

	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		prefs.Timing = update.Apply(prefs.Timing)
		return nil
	})
}

func validateClocks(clocks ...string) error {
	for _, clock := range clocks {
		if _, err := common.ParseClock(clock); err != nil {
			return errors.Wrap(ErrInvalidTime, err.Error())
		}
	}
	return nil
}

// UpdatePriorityFilter merges a partial update into the global priority filter.
func (s *Service) UpdatePriorityFilter(ctx context.Context, update model.PriorityFilterUpdate) error {
	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		prefs.PriorityFilter = update.Apply(prefs.PriorityFilter)
		return nil
	})
}

// UpdateAdvanced merges a partial update into the advanced settings.
func (s *Service) UpdateAdvanced(ctx context.Context, update model.AdvancedUpdate) error {
	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		prefs.Advanced = update.Apply(prefs.Advanced)
		return nil
	})
}

// ToggleGlobal switches all notifications on or off.
func (s *Service) ToggleGlobal(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func(prefs *model.NotificationPreferences) error {
		prefs.GlobalEnabled = enabled
		return nil
	})
}

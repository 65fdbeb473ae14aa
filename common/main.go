package common

import (
	"github.com/mcnijman/go-emailaddress"
	"github.com/pkg/errors"
)

// ValidateEmailAddress returns an error if the format of an email address is invalid.
func ValidateEmailAddress(emailAddress string) error {
	_, err := emailaddress.Parse(emailAddress)
	if err != nil {
		return errors.Wrapf(err, "invalid email address `%s`", emailAddress)
	}
	return nil
}

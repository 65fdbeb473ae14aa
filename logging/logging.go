package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ServiceName is attached to every log entry produced by this service.
const ServiceName = "notification-preferences"

// Log is the base log entry that all packages derive their loggers from.
var Log = logrus.WithFields(logrus.Fields{"service": ServiceName})

// SetupLogging configures the level and formatter of the standard logger.
func SetupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level `%s`", level)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(lvl)

	return nil
}

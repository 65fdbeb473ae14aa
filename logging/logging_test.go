package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	assert.NoError(t, SetupLogging("debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Equal(t, ServiceName, Log.Data["service"])

	assert.Error(t, SetupLogging("chatty"))
}

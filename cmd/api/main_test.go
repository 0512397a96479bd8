package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFromEnvOnly(t *testing.T) {

	t.Setenv("D2T_DOMOTICZ_BASE_URL", "http://domoticz.local:8080/")
	t.Setenv("D2T_MQTT_HOST", "broker.local")

	cfg, err := initConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://domoticz.local:8080", cfg.Domoticz.BaseURL)
	assert.Equal(t, "broker.local", cfg.MQTT.Host)
	assert.Equal(t, "talkops", cfg.MQTT.BaseTopic)
	assert.Equal(t, 1883, cfg.MQTT.Port)
}

func TestInitConfigRejectsMissingBaseURL(t *testing.T) {

	t.Setenv("D2T_DOMOTICZ_BASE_URL", "")
	t.Setenv("D2T_MQTT_HOST", "broker.local")

	_, err := initConfig()
	require.Error(t, err)
}

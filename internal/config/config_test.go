package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMQTTTopic(t *testing.T) {

	assert := assert.New(t)

	topic, err := CheckMQTTTopic("TalkOps_1")
	require.NoError(t, err)
	assert.Equal("talkops_1", topic)

	_, err = CheckMQTTTopic("talk/ops")
	assert.Error(err)

	_, err = CheckMQTTTopic("")
	assert.Error(err)
}

func TestCheckBaseURL(t *testing.T) {

	assert := assert.New(t)

	base, err := CheckBaseURL("http://domoticz:8080/")
	require.NoError(t, err)
	assert.Equal("http://domoticz:8080", base)

	_, err = CheckBaseURL("domoticz:8080")
	assert.Error(err)

	_, err = CheckBaseURL("")
	assert.Error(err)
}

package util

import (
	"domoticz2talkops/internal/config"

	"go.uber.org/zap/zapcore"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zapcore.DebugLevel,
		Domoticz: config.DomoticzConfig{
			BaseURL:              "http://localhost:8080",
			Username:             "admin",
			Password:             "domoticz",
			RequestTimeoutMillis: 2000,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "talkops",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8081,
	}
}

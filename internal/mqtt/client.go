package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"domoticz2talkops/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("domoticz2talkops_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:             mqtt.NewClient(opts),
		cfg:                cfg.MQTT,
		functionCallRegexp: functionCallExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client             mqtt.Client
	cfg                config.MQTTConfig
	functionCallRegexp *regexp.Regexp
}

// FunctionCall is one action function invocation received from the host
// runtime.
type FunctionCall struct {
	Function string
	Action   string `json:"action"`
	IDs      []int  `json:"ids"`
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

func (c *MQTTClient) BridgeVersionTopic() string {
	return fmt.Sprintf("%s/bridge/version", c.baseTopic())
}

func (c *MQTTClient) InstructionsTopic() string {
	return fmt.Sprintf("%s/instructions", c.baseTopic())
}

func (c *MQTTClient) FunctionSchemasTopic() string {
	return fmt.Sprintf("%s/function_schemas", c.baseTopic())
}

func (c *MQTTClient) FunctionCallTopic(function string) string {
	return fmt.Sprintf("%s/function/%s/call", c.baseTopic(), function)
}

// FunctionResultTopic is the topic a function invocation result is published
// to. Package level so the executor can build it without holding a client.
func FunctionResultTopic(baseTopic, function string) string {
	return fmt.Sprintf("%s/function/%s/result", baseTopic, function)
}

// ParseFunctionCall extracts the function name from a call topic and decodes
// the {"action": ..., "ids": [...]} payload.
func (c *MQTTClient) ParseFunctionCall(msg mqtt.Message) (*FunctionCall, error) {
	matches := c.functionCallRegexp.FindAllStringSubmatch(msg.Topic(), 1)
	if len(matches) == 0 {
		return nil, errors.New("not a function call topic")
	}
	if len(matches[0]) != 2 {
		return nil, errors.New("invalid function call topic")
	}
	var call FunctionCall
	if err := json.Unmarshal(msg.Payload(), &call); err != nil {
		return nil, err
	}
	if call.Action == "" {
		return nil, errors.New("function call without action")
	}
	call.Function = matches[0][1]
	return &call, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToFunctionCalls(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(fmt.Sprintf("%s/function/+/call", c.baseTopic()), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func functionCallExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/function/([a-z0-9_]+)/call$", baseTopic))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}

package domoticz

import (
	"errors"
	"fmt"
	"sync"
)

// TestClient is an offline Client with a small but complete fixture set:
// one floor with two rooms, a light, a shutter, a multi-value weather
// station, an air quality sensor and two scenes.
type TestClient struct {
	TempUnit int

	// fail switches for cycle-abort tests; guards FailDevices, which tests
	// may flip while a poll cycle is running
	mu sync.Mutex

	FailVersion    bool
	FailSettings   bool
	FailFloorPlans bool
	FailPlans      bool
	FailDevices    bool
	FailScenes     bool

	// switch commands against these ids return ErrApplication
	RejectIdx map[int]bool

	// every switch command issued, in order
	SwitchCalls []SwitchCall
}

type SwitchCall struct {
	Kind    string // "light" or "scene"
	Idx     int
	Command string
}

var errTestTransport = errors.New("connection refused")

func CreateTestClient() *TestClient {
	return &TestClient{
		RejectIdx: map[int]bool{},
	}
}

func (c *TestClient) GetVersion() (*Version, error) {
	if c.FailVersion {
		return nil, errTestTransport
	}
	return &Version{Status: "OK", Version: "2024.7"}, nil
}

func (c *TestClient) GetSettings() (*Settings, error) {
	if c.FailSettings {
		return nil, errTestTransport
	}
	return &Settings{Status: "OK", TempUnit: c.TempUnit}, nil
}

func (c *TestClient) GetFloorPlans() ([]FloorPlan, error) {
	if c.FailFloorPlans {
		return nil, errTestTransport
	}
	return []FloorPlan{
		{Idx: "1", Name: "Ground floor"},
	}, nil
}

func (c *TestClient) GetFloorPlanPlans(idx string) ([]Plan, error) {
	if c.FailPlans {
		return nil, errTestTransport
	}
	if idx != "1" {
		return nil, nil
	}
	return []Plan{
		{Idx: "5", Name: "Living room"},
		{Idx: "7", Name: "Kitchen"},
	}, nil
}

func (c *TestClient) SetFailDevices(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FailDevices = fail
}

func (c *TestClient) GetDevices() ([]Device, error) {
	c.mu.Lock()
	fail := c.FailDevices
	c.mu.Unlock()
	if fail {
		return nil, errTestTransport
	}
	temp := 21.5
	humidity := 60
	barometer := 1013.0
	return []Device{
		{Idx: "10", Name: "Ceiling light", Description: "Main light", Type: "Light/Switch", SwitchType: "On/Off", Status: "On", PlanIDs: []int{0, 5}},
		{Idx: "11", Name: "Bay window shutter", Type: "Light/Switch", SwitchType: "Blinds + Stop", Status: "Closed", PlanIDs: []int{5}},
		{Idx: "12", Name: "Weather station", Type: "Temp + Humidity + Baro", Status: "", Temp: &temp, Humidity: &humidity, Barometer: &barometer, PlanIDs: []int{7}},
		{Idx: "13", Name: "CO2 meter", Type: "Air Quality", Data: "419 ppm", PlanIDs: []int{0, 0}},
		{Idx: "14", Name: "Doorbell", Type: "Light/Switch", SwitchType: "Push On Button", Status: "Off", PlanIDs: []int{0}},
	}, nil
}

func (c *TestClient) GetScenes() ([]Scene, error) {
	if c.FailScenes {
		return nil, errTestTransport
	}
	return []Scene{
		{Idx: "2", Name: "Evening lights", Type: "Group", Status: "On"},
		{Idx: "3", Name: "Cinema mode", Type: "Scene", Status: "Off"},
	}, nil
}

func (c *TestClient) SwitchLight(idx int, command string) error {
	return c.recordSwitch("light", idx, command)
}

func (c *TestClient) SwitchScene(idx int, command string) error {
	return c.recordSwitch("scene", idx, command)
}

func (c *TestClient) recordSwitch(kind string, idx int, command string) error {
	c.SwitchCalls = append(c.SwitchCalls, SwitchCall{Kind: kind, Idx: idx, Command: command})
	if c.RejectIdx[idx] {
		return fmt.Errorf("switch %s %d: %w", kind, idx, ErrApplication)
	}
	return nil
}

var _ Client = (*TestClient)(nil)

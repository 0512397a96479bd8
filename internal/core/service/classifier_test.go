package service

import (
	"testing"

	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/pkg/domoticz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOnOffSwitch(t *testing.T) {

	assert := assert.New(t)

	dev := domoticz.Device{Idx: "10", Name: "Lamp", SwitchType: "On/Off", Status: "On", PlanIDs: []int{0, 5}}
	classified := ClassifyDevice(dev, Celsius)

	require.NotNil(t, classified.Light)
	assert.Equal(10, classified.Light.ID)
	assert.Equal(domain.LightOn, classified.Light.State)
	require.NotNil(t, classified.Light.RoomID)
	assert.Equal(5, *classified.Light.RoomID)
	assert.Nil(classified.Light.Description, "empty description becomes nil")

	// status comparison is exact, "ON" is not "On"
	dev.Status = "ON"
	classified = ClassifyDevice(dev, Celsius)
	require.NotNil(t, classified.Light)
	assert.Equal(domain.LightOff, classified.Light.State)
}

func TestClassifyBlindsStatePrecedence(t *testing.T) {

	assert := assert.New(t)

	cases := map[string]domain.ShutterState{
		"Closed":  domain.ShutterClosed,
		"Stopped": domain.ShutterUnknown,
		"On":      domain.ShutterOpened,
		"Open":    domain.ShutterOpened,
		"":        domain.ShutterOpened,
	}
	for status, expected := range cases {
		dev := domoticz.Device{Idx: "11", Name: "Shutter", SwitchType: "Blinds + Stop", Status: status}
		classified := ClassifyDevice(dev, Celsius)
		require.NotNil(t, classified.Shutter, "status %q", status)
		assert.Equal(expected, classified.Shutter.State, "status %q", status)
	}

	dev := domoticz.Device{Idx: "11", Name: "Shutter", SwitchType: "Blinds", Status: "Closed"}
	require.NotNil(t, ClassifyDevice(dev, Celsius).Shutter)
}

func TestClassifyTempDeviceReadings(t *testing.T) {

	assert := assert.New(t)

	temp := 21.5
	humidity := 60
	barometer := 1013.0

	full := domoticz.Device{Idx: "12", Name: "Weather", Type: "Temp + Humidity + Baro",
		Temp: &temp, Humidity: &humidity, Barometer: &barometer}
	classified := ClassifyDevice(full, Celsius)
	require.Len(t, classified.Sensors, 3)
	assert.Equal(domain.SensorTemperature, classified.Sensors[0].Type)
	assert.Equal("21.5", classified.Sensors[0].Value)
	assert.Equal("°C", classified.Sensors[0].Unit)
	assert.Equal(domain.SensorHumidity, classified.Sensors[1].Type)
	assert.Equal("60", classified.Sensors[1].Value)
	assert.Equal("%", classified.Sensors[1].Unit)
	assert.Equal(domain.SensorPressure, classified.Sensors[2].Type)
	assert.Equal("1013", classified.Sensors[2].Value)
	assert.Equal("hPa", classified.Sensors[2].Unit)

	tempOnly := domoticz.Device{Idx: "12", Name: "Thermometer", Type: "Temp", Temp: &temp}
	classified = ClassifyDevice(tempOnly, Fahrenheit)
	require.Len(t, classified.Sensors, 1)
	assert.Equal("°F", classified.Sensors[0].Unit)
}

func TestClassifyAirQuality(t *testing.T) {

	assert := assert.New(t)

	dev := domoticz.Device{Idx: "13", Name: "CO2", Type: "Air Quality", Data: "42 ppm"}
	classified := ClassifyDevice(dev, Celsius)
	require.Len(t, classified.Sensors, 1)
	assert.Equal(domain.SensorAirQuality, classified.Sensors[0].Type)
	assert.Equal("42", classified.Sensors[0].Value)
	assert.Equal("ppm", classified.Sensors[0].Unit)

	// data without the suffix passes through unchanged
	dev.Data = "42"
	classified = ClassifyDevice(dev, Celsius)
	require.Len(t, classified.Sensors, 1)
	assert.Equal("42", classified.Sensors[0].Value)
}

func TestClassifyIgnoresUnknownKinds(t *testing.T) {

	assert := assert.New(t)

	dev := domoticz.Device{Idx: "14", Name: "Doorbell", Type: "Light/Switch", SwitchType: "Push On Button", Status: "Off"}
	classified := ClassifyDevice(dev, Celsius)
	assert.Nil(classified.Light)
	assert.Nil(classified.Shutter)
	assert.Empty(classified.Sensors)
}

func TestDeriveRoomID(t *testing.T) {

	assert := assert.New(t)

	roomID := DeriveRoomID([]int{0, 0, 5, 7})
	require.NotNil(t, roomID)
	assert.Equal(5, *roomID)

	assert.Nil(DeriveRoomID([]int{0, 0}))
	assert.Nil(DeriveRoomID(nil))
}

func TestClassifyScene(t *testing.T) {

	assert := assert.New(t)

	group, ok := ClassifyScene(domoticz.Scene{Idx: "2", Name: "Evening", Type: "Group", Status: "On"})
	require.True(t, ok)
	require.NotNil(t, group.State)
	assert.Equal(domain.SceneEnabled, *group.State)

	group, ok = ClassifyScene(domoticz.Scene{Idx: "2", Name: "Evening", Type: "Group", Status: "Off"})
	require.True(t, ok)
	require.NotNil(t, group.State)
	assert.Equal(domain.SceneDisabled, *group.State)

	plain, ok := ClassifyScene(domoticz.Scene{Idx: "3", Name: "Cinema", Type: "Scene", Status: "Off"})
	require.True(t, ok)
	assert.Nil(plain.State, "plain scenes carry no state")
}

func TestClassifyFloorAndRoom(t *testing.T) {

	assert := assert.New(t)

	floor, ok := ClassifyFloor(domoticz.FloorPlan{Idx: "1", Name: "Ground floor"})
	require.True(t, ok)
	assert.Equal(domain.Floor{ID: 1, Name: "Ground floor"}, floor)

	room, ok := ClassifyRoom(domoticz.Plan{Idx: "5", Name: "Living room"}, 1)
	require.True(t, ok)
	assert.Equal(domain.Room{ID: 5, Name: "Living room", FloorID: 1}, room)

	_, ok = ClassifyFloor(domoticz.FloorPlan{Idx: "not-a-number"})
	assert.False(ok)
}

func TestTemperatureUnitFromSettings(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(Celsius, TemperatureUnitFromSettings(domoticz.Settings{TempUnit: 0}))
	assert.Equal(Fahrenheit, TemperatureUnitFromSettings(domoticz.Settings{TempUnit: 1}))
}

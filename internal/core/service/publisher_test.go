package service

import (
	"strings"
	"testing"

	"domoticz2talkops/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderInstructionsFallback(t *testing.T) {

	assert := assert.New(t)

	snapshot := domain.Snapshot{
		Floors: []domain.Floor{{ID: 1, Name: "Ground floor"}},
		Rooms:  []domain.Room{{ID: 5, Name: "Living room", FloorID: 1}},
	}
	require.True(t, snapshot.Empty(), "floors and rooms alone do not count as devices")

	text, err := RenderInstructions(snapshot)
	require.NoError(t, err)
	assert.Equal(baseInstructions+"\n"+defaultInstructions, text)
}

func TestRenderInstructionsFencedBlock(t *testing.T) {

	assert := assert.New(t)

	description := "Main light"
	roomID := 5
	snapshot := domain.Snapshot{
		Floors: []domain.Floor{{ID: 1, Name: "Ground floor"}},
		Rooms:  []domain.Room{{ID: 5, Name: "Living room", FloorID: 1}},
		Lights: []domain.Light{{ID: 10, Name: "Ceiling light", Description: &description, State: domain.LightOn, RoomID: &roomID}},
	}

	text, err := RenderInstructions(snapshot)
	require.NoError(t, err)

	assert.True(strings.HasPrefix(text, baseInstructions+"\n``` yaml\n"), "preamble then fenced block")
	assert.True(strings.HasSuffix(text, "\n```"), "closing fence")
	assert.NotContains(text, defaultInstructions)

	// the dump is valid yaml with models first, then collections
	dump := strings.TrimSuffix(strings.TrimPrefix(text, baseInstructions+"\n``` yaml\n"), "\n```")
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(dump), &doc))
	for _, key := range []string{"floorsModel", "roomsModel", "lightsModel", "shuttersModel", "sensorsModel", "scenesModel",
		"floors", "rooms", "lights", "shutters", "sensors", "scenes"} {
		assert.Contains(doc, key)
	}
	assert.Less(strings.Index(dump, "scenesModel:"), strings.Index(dump, "\nfloors:"), "models precede collections")

	lights, ok := doc["lights"].([]any)
	require.True(t, ok)
	require.Len(t, lights, 1)
	light, ok := lights[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(10, light["id"])
	assert.Equal("on", light["state"])
	assert.Equal(5, light["room_id"])

	shutters, ok := doc["shutters"].([]any)
	require.True(t, ok)
	assert.Empty(shutters)
}

func TestRenderInstructionsNullableFields(t *testing.T) {

	assert := assert.New(t)

	snapshot := domain.Snapshot{
		Scenes: []domain.Scene{{ID: 3, Name: "Cinema"}},
	}
	text, err := RenderInstructions(snapshot)
	require.NoError(t, err)

	var doc map[string]any
	dump := strings.TrimSuffix(strings.TrimPrefix(text, baseInstructions+"\n``` yaml\n"), "\n```")
	require.NoError(t, yaml.Unmarshal([]byte(dump), &doc))

	scenes, ok := doc["scenes"].([]any)
	require.True(t, ok)
	require.Len(t, scenes, 1)
	scene, ok := scenes[0].(map[string]any)
	require.True(t, ok)
	value, present := scene["state"]
	assert.True(present, "state key serialized")
	assert.Nil(value, "non-togglable scene state is null")
}

func TestActiveFunctionSchemasSelection(t *testing.T) {

	assert := assert.New(t)

	assert.Empty(ActiveFunctionSchemas(domain.Snapshot{}))

	lightsOnly := domain.Snapshot{Lights: []domain.Light{{ID: 1, Name: "Lamp", State: domain.LightOff}}}
	schemas := ActiveFunctionSchemas(lightsOnly)
	require.Len(t, schemas, 1)
	assert.Equal("update_lights", schemas[0].Name)

	everything := domain.Snapshot{
		Lights:   lightsOnly.Lights,
		Shutters: []domain.Shutter{{ID: 2, Name: "Shutter", State: domain.ShutterOpened}},
		Scenes:   []domain.Scene{{ID: 3, Name: "Evening"}},
	}
	schemas = ActiveFunctionSchemas(everything)
	require.Len(t, schemas, 3)
	assert.Equal("update_lights", schemas[0].Name)
	assert.Equal("update_scenes", schemas[1].Name)
	assert.Equal("update_shutters", schemas[2].Name)

	// sensors alone publish no callable function
	sensorsOnly := domain.Snapshot{Sensors: []domain.SensorReading{{Name: "Temp", Type: domain.SensorTemperature, Value: "20", Unit: "°C"}}}
	assert.Empty(ActiveFunctionSchemas(sensorsOnly))
	assert.False(sensorsOnly.Empty(), "sensors still produce an instructions dump")
}

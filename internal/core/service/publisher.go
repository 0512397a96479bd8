package service

import (
	"strings"

	"domoticz2talkops/internal/core/domain"

	"gopkg.in/yaml.v3"
)

const baseInstructions = `You are a home automation assistant, focused solely on managing connected devices in the home.
When asked to calculate an average, **round to the nearest whole number** without explaining the calculation.`

const defaultInstructions = `Currently, no connected devices have been assigned to you.
Your sole task is to ask the user to install one or more connected devices in the home before proceeding.`

// instructionsDocument fixes the key order of the fenced dump: the six model
// documents first, then the six collections.
type instructionsDocument struct {
	FloorsModel   yaml.Node `yaml:"floorsModel"`
	RoomsModel    yaml.Node `yaml:"roomsModel"`
	LightsModel   yaml.Node `yaml:"lightsModel"`
	ShuttersModel yaml.Node `yaml:"shuttersModel"`
	SensorsModel  yaml.Node `yaml:"sensorsModel"`
	ScenesModel   yaml.Node `yaml:"scenesModel"`

	Floors   []domain.Floor         `yaml:"floors"`
	Rooms    []domain.Room          `yaml:"rooms"`
	Lights   []domain.Light         `yaml:"lights"`
	Shutters []domain.Shutter       `yaml:"shutters"`
	Sensors  []domain.SensorReading `yaml:"sensors"`
	Scenes   []domain.Scene         `yaml:"scenes"`
}

// RenderInstructions builds the full instructions text for one snapshot:
// the assistant preamble followed by either the no-devices fallback or a
// fenced YAML block with schemas and collections.
func RenderInstructions(snapshot domain.Snapshot) (string, error) {
	parts := []string{baseInstructions}
	if snapshot.Empty() {
		parts = append(parts, defaultInstructions)
	} else {
		doc := instructionsDocument{
			FloorsModel:   floorsModel,
			RoomsModel:    roomsModel,
			LightsModel:   lightsModel,
			ShuttersModel: shuttersModel,
			SensorsModel:  sensorsModel,
			ScenesModel:   scenesModel,
			Floors:        snapshot.Floors,
			Rooms:         snapshot.Rooms,
			Lights:        snapshot.Lights,
			Shutters:      snapshot.Shutters,
			Sensors:       snapshot.Sensors,
			Scenes:        snapshot.Scenes,
		}
		dump, err := yaml.Marshal(doc)
		if err != nil {
			return "", err
		}
		parts = append(parts, "``` yaml", strings.TrimSuffix(string(dump), "\n"), "```")
	}
	return strings.Join(parts, "\n"), nil
}

// ActiveFunctionSchemas selects the action functions that make sense for the
// snapshot. An empty collection drops its function.
func ActiveFunctionSchemas(snapshot domain.Snapshot) []domain.FunctionSchema {
	var schemas []domain.FunctionSchema
	if len(snapshot.Lights) > 0 {
		schemas = append(schemas, UpdateLightsSchema)
	}
	if len(snapshot.Scenes) > 0 {
		schemas = append(schemas, UpdateScenesSchema)
	}
	if len(snapshot.Shutters) > 0 {
		schemas = append(schemas, UpdateShuttersSchema)
	}
	return schemas
}

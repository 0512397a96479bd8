package service

import (
	"domoticz2talkops/internal/core/domain"

	"gopkg.in/yaml.v3"
)

// Static description documents for each entity kind, dumped ahead of the
// entity collections so the consuming runtime knows how to read them. They
// never change between cycles.

const floorsModelYAML = `
description: A floor of the home.
properties:
  id:
    type: integer
    description: Unique identifier of the floor.
  name:
    type: string
    description: Name of the floor.
`

const roomsModelYAML = `
description: A room, located on a floor.
properties:
  id:
    type: integer
    description: Unique identifier of the room.
  name:
    type: string
    description: Name of the room.
  floor_id:
    type: integer
    description: Identifier of the floor the room belongs to.
`

const lightsModelYAML = `
description: A light that can be turned on or off with update_lights.
properties:
  id:
    type: integer
    description: Unique identifier of the light.
  name:
    type: string
    description: Name of the light.
  description:
    type: string
    description: Optional free-form description, null when not set.
  state:
    type: string
    enum: [on, off]
  room_id:
    type: integer
    description: Identifier of the room the light is in, null when unassigned.
`

const shuttersModelYAML = `
description: A shutter that can be opened, closed or stopped with update_shutters.
properties:
  id:
    type: integer
    description: Unique identifier of the shutter.
  name:
    type: string
    description: Name of the shutter.
  description:
    type: string
    description: Optional free-form description, null when not set.
  state:
    type: string
    enum: [opened, closed, unknown]
  room_id:
    type: integer
    description: Identifier of the room the shutter is in, null when unassigned.
`

const sensorsModelYAML = `
description: A read-only sensor value. One physical device may expose several readings.
properties:
  name:
    type: string
    description: Name of the sensor.
  description:
    type: string
    description: Optional free-form description, null when not set.
  type:
    type: string
    enum: [temperature, humidity, pressure, air_quality]
  value:
    type: string
    description: Current reading, formatted as a number.
  unit:
    type: string
    description: Unit of the reading (°C, °F, %, hPa or ppm).
  room_id:
    type: integer
    description: Identifier of the room the sensor is in, null when unassigned.
`

const scenesModelYAML = `
description: A scene or group managed with update_scenes.
properties:
  id:
    type: integer
    description: Unique identifier of the scene.
  name:
    type: string
    description: Name of the scene.
  state:
    type: string
    enum: [enabled, disabled]
    description: Only groups carry a state; plain scenes have null and can only be triggered.
`

var (
	floorsModel   = mustModelNode(floorsModelYAML)
	roomsModel    = mustModelNode(roomsModelYAML)
	lightsModel   = mustModelNode(lightsModelYAML)
	shuttersModel = mustModelNode(shuttersModelYAML)
	sensorsModel  = mustModelNode(sensorsModelYAML)
	scenesModel   = mustModelNode(scenesModelYAML)
)

func mustModelNode(src string) yaml.Node {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		panic(err)
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return *node.Content[0]
	}
	return node
}

// Function declarations registered with the host runtime. Each one is only
// published while its entity collection is non-empty.

var UpdateLightsSchema = domain.FunctionSchema{
	Name:        "update_lights",
	Description: "Turn one or more lights on or off.",
	Parameters: domain.FunctionParameters{
		Type: "object",
		Properties: domain.FunctionProperties{
			Action: domain.ActionProperty{
				Type:        "string",
				Description: "The switch command to apply to every target light.",
				Enum:        []string{"On", "Off"},
			},
			IDs: domain.IDsProperty{
				Type:        "array",
				Description: "Ids of the target lights.",
				Items:       domain.ItemType{Type: "integer"},
			},
		},
		Required: []string{"action", "ids"},
	},
}

var UpdateShuttersSchema = domain.FunctionSchema{
	Name:        "update_shutters",
	Description: "Open, close or stop one or more shutters.",
	Parameters: domain.FunctionParameters{
		Type: "object",
		Properties: domain.FunctionProperties{
			Action: domain.ActionProperty{
				Type:        "string",
				Description: "The command to apply to every target shutter.",
				Enum:        []string{"Open", "Close", "Stop"},
			},
			IDs: domain.IDsProperty{
				Type:        "array",
				Description: "Ids of the target shutters.",
				Items:       domain.ItemType{Type: "integer"},
			},
		},
		Required: []string{"action", "ids"},
	},
}

var UpdateScenesSchema = domain.FunctionSchema{
	Name:        "update_scenes",
	Description: "Enable, disable or toggle one or more scenes or groups.",
	Parameters: domain.FunctionParameters{
		Type: "object",
		Properties: domain.FunctionProperties{
			Action: domain.ActionProperty{
				Type:        "string",
				Description: "The command to apply to every target scene.",
				Enum:        []string{"On", "Off", "Toggle"},
			},
			IDs: domain.IDsProperty{
				Type:        "array",
				Description: "Ids of the target scenes.",
				Items:       domain.ItemType{Type: "integer"},
			},
		},
		Required: []string{"action", "ids"},
	},
}

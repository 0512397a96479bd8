package domain

// Entities are rebuilt from scratch on every poll cycle; none of them carry
// identity across cycles.

type LightState string

const (
	LightOn  LightState = "on"
	LightOff LightState = "off"
)

type ShutterState string

const (
	ShutterOpened  ShutterState = "opened"
	ShutterClosed  ShutterState = "closed"
	ShutterUnknown ShutterState = "unknown"
)

type SensorType string

const (
	SensorTemperature SensorType = "temperature"
	SensorHumidity    SensorType = "humidity"
	SensorPressure    SensorType = "pressure"
	SensorAirQuality  SensorType = "air_quality"
)

type SceneState string

const (
	SceneEnabled  SceneState = "enabled"
	SceneDisabled SceneState = "disabled"
)

type Floor struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type Room struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	FloorID int    `yaml:"floor_id"`
}

type Light struct {
	ID          int        `yaml:"id"`
	Name        string     `yaml:"name"`
	Description *string    `yaml:"description"`
	State       LightState `yaml:"state"`
	RoomID      *int       `yaml:"room_id"`
}

type Shutter struct {
	ID          int          `yaml:"id"`
	Name        string       `yaml:"name"`
	Description *string      `yaml:"description"`
	State       ShutterState `yaml:"state"`
	RoomID      *int         `yaml:"room_id"`
}

// SensorReading has no stable id: the controller emits none and one device
// may yield several readings per cycle.
type SensorReading struct {
	Name        string     `yaml:"name"`
	Description *string    `yaml:"description"`
	Type        SensorType `yaml:"type"`
	Value       string     `yaml:"value"`
	Unit        string     `yaml:"unit"`
	RoomID      *int       `yaml:"room_id"`
}

// Scene state is nil for plain scenes that can only be triggered, not
// toggled.
type Scene struct {
	ID    int         `yaml:"id"`
	Name  string      `yaml:"name"`
	State *SceneState `yaml:"state"`
}

// Snapshot is the cycle-consistent aggregate of everything classified during
// one poll. It is replaced wholesale, never merged.
type Snapshot struct {
	ControllerVersion string
	Floors            []Floor
	Rooms             []Room
	Lights            []Light
	Shutters          []Shutter
	Sensors           []SensorReading
	Scenes            []Scene
}

// Empty reports whether no controllable or observable device exists. Floors
// and rooms alone do not count: an empty home with a floorplan still has
// nothing to manage.
func (s Snapshot) Empty() bool {
	return len(s.Lights) == 0 && len(s.Shutters) == 0 && len(s.Sensors) == 0 && len(s.Scenes) == 0
}

package service

import (
	"strconv"
	"strings"

	"domoticz2talkops/internal/core/domain"
	"domoticz2talkops/pkg/domoticz"
)

type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "°C"
	Fahrenheit TemperatureUnit = "°F"
)

func TemperatureUnitFromSettings(settings domoticz.Settings) TemperatureUnit {
	if settings.TempUnit == 1 {
		return Fahrenheit
	}
	return Celsius
}

// ClassifiedDevice is the outcome of classifying one raw device record:
// at most one light or shutter, or up to three sensor readings. All fields
// empty means the record is of no interest.
type ClassifiedDevice struct {
	Light   *domain.Light
	Shutter *domain.Shutter
	Sensors []domain.SensorReading
}

// DeriveRoomID picks the first plan association that is not the "unassigned"
// sentinel 0.
func DeriveRoomID(planIDs []int) *int {
	for _, id := range planIDs {
		if id != 0 {
			roomID := id
			return &roomID
		}
	}
	return nil
}

// ClassifyDevice applies the switch-type/type precedence: On/Off switches
// become lights, blinds become shutters, Temp* devices yield one reading per
// present value, Air Quality* devices yield one ppm reading. Anything else
// produces nothing.
func ClassifyDevice(dev domoticz.Device, unit TemperatureUnit) ClassifiedDevice {
	roomID := DeriveRoomID(dev.PlanIDs)
	description := optionalString(dev.Description)

	switch {
	case dev.SwitchType == "On/Off":
		id, err := strconv.Atoi(dev.Idx)
		if err != nil {
			return ClassifiedDevice{}
		}
		state := domain.LightOff
		if dev.Status == "On" {
			state = domain.LightOn
		}
		return ClassifiedDevice{Light: &domain.Light{
			ID:          id,
			Name:        dev.Name,
			Description: description,
			State:       state,
			RoomID:      roomID,
		}}
	case dev.SwitchType == "Blinds" || dev.SwitchType == "Blinds + Stop":
		id, err := strconv.Atoi(dev.Idx)
		if err != nil {
			return ClassifiedDevice{}
		}
		// Closed before Stopped before the opened fallback
		state := domain.ShutterOpened
		if dev.Status == "Closed" {
			state = domain.ShutterClosed
		} else if dev.Status == "Stopped" {
			state = domain.ShutterUnknown
		}
		return ClassifiedDevice{Shutter: &domain.Shutter{
			ID:          id,
			Name:        dev.Name,
			Description: description,
			State:       state,
			RoomID:      roomID,
		}}
	case strings.HasPrefix(dev.Type, "Temp"):
		var readings []domain.SensorReading
		if dev.Temp != nil {
			readings = append(readings, domain.SensorReading{
				Name:        dev.Name,
				Description: description,
				Type:        domain.SensorTemperature,
				Value:       strconv.FormatFloat(*dev.Temp, 'f', -1, 64),
				Unit:        string(unit),
				RoomID:      roomID,
			})
		}
		if dev.Humidity != nil {
			readings = append(readings, domain.SensorReading{
				Name:        dev.Name,
				Description: description,
				Type:        domain.SensorHumidity,
				Value:       strconv.Itoa(*dev.Humidity),
				Unit:        "%",
				RoomID:      roomID,
			})
		}
		if dev.Barometer != nil {
			readings = append(readings, domain.SensorReading{
				Name:        dev.Name,
				Description: description,
				Type:        domain.SensorPressure,
				Value:       strconv.FormatFloat(*dev.Barometer, 'f', -1, 64),
				Unit:        "hPa",
				RoomID:      roomID,
			})
		}
		return ClassifiedDevice{Sensors: readings}
	case strings.HasPrefix(dev.Type, "Air Quality"):
		return ClassifiedDevice{Sensors: []domain.SensorReading{{
			Name:        dev.Name,
			Description: description,
			Type:        domain.SensorAirQuality,
			Value:       strings.TrimSuffix(dev.Data, " ppm"),
			Unit:        "ppm",
			RoomID:      roomID,
		}}}
	default:
		return ClassifiedDevice{}
	}
}

func ClassifyFloor(fp domoticz.FloorPlan) (domain.Floor, bool) {
	id, err := strconv.Atoi(fp.Idx)
	if err != nil {
		return domain.Floor{}, false
	}
	return domain.Floor{ID: id, Name: fp.Name}, true
}

func ClassifyRoom(plan domoticz.Plan, floorID int) (domain.Room, bool) {
	id, err := strconv.Atoi(plan.Idx)
	if err != nil {
		return domain.Room{}, false
	}
	return domain.Room{ID: id, Name: plan.Name, FloorID: floorID}, true
}

// ClassifyScene marks only togglable groups with a state; plain scenes keep
// a nil state.
func ClassifyScene(scene domoticz.Scene) (domain.Scene, bool) {
	id, err := strconv.Atoi(scene.Idx)
	if err != nil {
		return domain.Scene{}, false
	}
	var state *domain.SceneState
	if scene.Type == "Group" {
		groupState := domain.SceneDisabled
		if scene.Status == "On" {
			groupState = domain.SceneEnabled
		}
		state = &groupState
	}
	return domain.Scene{ID: id, Name: scene.Name, State: state}, true
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package domain

import "domoticz2talkops/pkg/domoticz"

const (
	ACTOR_ID_MASTER   = "master"
	ACTOR_ID_DOMOTICZ = "domoticz"
	ACTOR_ID_POLLER   = "poller"
	ACTOR_ID_MQTT     = "mqtt"
	ACTOR_ID_EXECUTOR = "executor"
)

// Domoticz adapter messages. One request per remote command; the response
// carries the raw records or the transport error.

type GetVersionRequest struct {
	ActorRequestMixIn
}

type GetVersionResponse struct {
	ActorResponseMixIn
	Version string
}

type GetSettingsRequest struct {
	ActorRequestMixIn
}

type GetSettingsResponse struct {
	ActorResponseMixIn
	Settings domoticz.Settings
}

type GetFloorPlansRequest struct {
	ActorRequestMixIn
}

type GetFloorPlansResponse struct {
	ActorResponseMixIn
	FloorPlans []domoticz.FloorPlan
}

type GetFloorPlanPlansRequest struct {
	ActorRequestMixIn
	Idx string
}

type GetFloorPlanPlansResponse struct {
	ActorResponseMixIn
	Idx   string
	Plans []domoticz.Plan
}

type GetDevicesRequest struct {
	ActorRequestMixIn
}

type GetDevicesResponse struct {
	ActorResponseMixIn
	Devices []domoticz.Device
}

type GetScenesRequest struct {
	ActorRequestMixIn
}

type GetScenesResponse struct {
	ActorResponseMixIn
	Scenes []domoticz.Scene
}

type SwitchLightRequest struct {
	ActorRequestMixIn
	Idx     int
	Command string
}

type SwitchLightResponse struct {
	ActorResponseMixIn
}

type SwitchSceneRequest struct {
	ActorRequestMixIn
	Idx     int
	Command string
}

type SwitchSceneResponse struct {
	ActorResponseMixIn
}

// Executor messages. The result is always a user-facing string, errors
// included ("Error: ...").

type UpdateLightsRequest struct {
	ActorRequestMixIn
	Action string
	IDs    []int
}

type UpdateShuttersRequest struct {
	ActorRequestMixIn
	Action string
	IDs    []int
}

type UpdateScenesRequest struct {
	ActorRequestMixIn
	Action string
	IDs    []int
}

type ActionResultResponse struct {
	ActorResponseMixIn
	Function string
	Result   string
}

// MQTT adapter messages.

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

// Master messages.

type GetInstructionsRequest struct {
	ActorRequestMixIn
}

type GetInstructionsResponse struct {
	ActorResponseMixIn
	Published       bool
	Instructions    string
	FunctionSchemas []FunctionSchema
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

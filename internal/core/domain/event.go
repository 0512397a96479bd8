package domain

// Event published on the actor system event stream after each successful
// poll cycle. The MQTT actor mirrors it to retained topics; the master
// caches the latest payload for the HTTP server.

type InstructionsUpdatedEvent struct {
	ControllerVersion string
	Instructions      string
	FunctionSchemas   []FunctionSchema
}

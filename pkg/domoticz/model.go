package domoticz

// Raw records as the Domoticz JSON API returns them. Numeric device ids come
// over the wire as strings ("idx": "12"); readings that a device does not
// expose are simply absent, so they are pointers here.

type Version struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Settings struct {
	Status string `json:"status"`
	// 0 = Celsius, 1 = Fahrenheit
	TempUnit int `json:"TempUnit"`
}

type FloorPlan struct {
	Idx  string `json:"idx"`
	Name string `json:"Name"`
}

type Plan struct {
	Idx  string `json:"idx"`
	Name string `json:"Name"`
}

type Device struct {
	Idx         string   `json:"idx"`
	Name        string   `json:"Name"`
	Description string   `json:"Description"`
	Type        string   `json:"Type"`
	SwitchType  string   `json:"SwitchType"`
	Status      string   `json:"Status"`
	Data        string   `json:"Data"`
	PlanIDs     []int    `json:"PlanIDs"`
	Temp        *float64 `json:"Temp,omitempty"`
	Humidity    *int     `json:"Humidity,omitempty"`
	Barometer   *float64 `json:"Barometer,omitempty"`
}

type Scene struct {
	Idx    string `json:"idx"`
	Name   string `json:"Name"`
	Type   string `json:"Type"`
	Status string `json:"Status"`
}

type commandResponse struct {
	Status string `json:"status"`
	Title  string `json:"title"`
}

// list responses wrap their payload in a "result" array that is absent when
// the controller has nothing of that kind configured

type floorPlansEnvelope struct {
	Result []FloorPlan `json:"result"`
}

type plansEnvelope struct {
	Result []Plan `json:"result"`
}

type devicesEnvelope struct {
	Result []Device `json:"result"`
}

type scenesEnvelope struct {
	Result []Scene `json:"result"`
}

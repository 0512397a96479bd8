package domain

// FunctionSchema declares one callable action function to the host runtime,
// in the conversational-runtime function format.
type FunctionSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  FunctionParameters `json:"parameters"`
}

type FunctionParameters struct {
	Type       string             `json:"type"`
	Properties FunctionProperties `json:"properties"`
	Required   []string           `json:"required"`
}

type FunctionProperties struct {
	Action ActionProperty `json:"action"`
	IDs    IDsProperty    `json:"ids"`
}

type ActionProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
}

type IDsProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Items       ItemType `json:"items"`
}

type ItemType struct {
	Type string `json:"type"`
}

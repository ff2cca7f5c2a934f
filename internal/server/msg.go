package server

// Msg is a client request.
//
//	{"type":"start","preset":"rod","every":10}
//	{"type":"stop"}
type Msg struct {
	Type   string `json:"type"`
	Preset string `json:"preset,omitempty"`
	Every  int    `json:"every,omitempty"`
}

const (
	TypeStart   = "start"
	TypeStop    = "stop"
	TypeStarted = "started"
	TypeFrame   = "frame"
	TypeDone    = "done"
	TypeStopped = "stopped"
	TypeError   = "error"
)

// Reply is everything the server sends. Frame fields are only set on
// "frame" and "done" replies.
type Reply struct {
	Type        string             `json:"type"`
	Content     string             `json:"content,omitempty"`
	Step        int                `json:"step,omitempty"`
	Time        float64            `json:"time,omitempty"`
	TotalEnergy float64            `json:"total_energy,omitempty"`
	Mean        float64            `json:"mean,omitempty"`
	Values      []float64          `json:"values,omitempty"`
	Shape       []int              `json:"shape,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	NonFinite   []string           `json:"non_finite,omitempty"`
}

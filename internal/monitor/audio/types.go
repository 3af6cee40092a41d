package audio

// Action is what happened to an audio object.
type Action string

const (
	ActionNew    Action = "new"
	ActionChange Action = "change"
	ActionRemove Action = "remove"
)

// ObjectType is the kind of audio object a subscribe event refers to.
type ObjectType string

const (
	ObjectSink         ObjectType = "sink"
	ObjectSource       ObjectType = "source"
	ObjectServer       ObjectType = "server"
	ObjectClient       ObjectType = "client"
	ObjectCard         ObjectType = "card"
	ObjectSinkInput    ObjectType = "sink-input"
	ObjectSourceOutput ObjectType = "source-output"
	ObjectModule       ObjectType = "module"
)

// Event is one decoded `pactl subscribe` line.
type Event struct {
	Action Action
	Object ObjectType
	Index  int
}

// Status is a combined volume and mute snapshot of the default sink.
// Volume is a percentage; PulseAudio allows boosting past 100, up to 150.
type Status struct {
	Volume int
	Muted  bool
}

// Sink is one entry of the JSON sink list. Sources share the shape.
type Sink struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	Mute        bool   `json:"mute"`
}

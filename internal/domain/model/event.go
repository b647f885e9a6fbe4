// Package model contains domain models passed between layers.
package model

// EventType is the play-by-play classification code used by the stats feed.
type EventType int

const (
	EventDLine    EventType = 1
	EventOLine    EventType = 2
	EventPull     EventType = 7
	EventThrow    EventType = 18
	EventGoal     EventType = 19
	EventTurnover EventType = 22
)

var eventTypeNames = map[EventType]string{
	EventDLine:    "dline",
	EventOLine:    "oline",
	EventPull:     "pull",
	EventThrow:    "throw",
	EventGoal:     "goal",
	EventTurnover: "turnover",
}

// Known reports whether t is one of the classified codes.
func (t EventType) Known() bool {
	_, ok := eventTypeNames[t]
	return ok
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// PassEvent is one observed pass. Thrower or Receiver may be empty when the
// feed did not record them.
type PassEvent struct {
	Thrower      string
	Receiver     string
	Timestamp    int64 // ordering key, valid only when HasTimestamp
	HasTimestamp bool
	Type         EventType
}

// RawEvent mirrors one entry of the stats feed's homeEvents/awayEvents arrays.
// Only the fields used downstream are decoded.
type RawEvent struct {
	Type      int      `json:"type"`
	Timestamp *int64   `json:"timestamp,omitempty"`
	Thrower   string   `json:"thrower,omitempty"`
	Receiver  string   `json:"receiver,omitempty"`
	Puller    string   `json:"puller,omitempty"`
	Line      []string `json:"line,omitempty"`
	ThrowerX  float64  `json:"throwerX,omitempty"`
	ThrowerY  float64  `json:"throwerY,omitempty"`
	ReceiverX float64  `json:"receiverX,omitempty"`
	ReceiverY float64  `json:"receiverY,omitempty"`
}

// PassEvent projects the raw record onto the aggregator's input shape.
func (r RawEvent) PassEvent() PassEvent {
	ev := PassEvent{
		Thrower:  r.Thrower,
		Receiver: r.Receiver,
		Type:     EventType(r.Type),
	}
	if r.Timestamp != nil {
		ev.Timestamp = *r.Timestamp
		ev.HasTimestamp = true
	}
	return ev
}

// PassEvents projects a merged feed in order.
func PassEvents(raw []RawEvent) []PassEvent {
	out := make([]PassEvent, len(raw))
	for i := range raw {
		out[i] = raw[i].PassEvent()
	}
	return out
}

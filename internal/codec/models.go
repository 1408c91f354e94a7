package codec

import "time"

// Position is one decoded GPS fix. Pointer fields are nil when the
// corresponding wire field was missing or unparseable.
type Position struct {
	DeviceID   string     `json:"deviceId"`
	Vendor     string     `json:"vendor"`
	Cmd        string     `json:"cmd"`
	Time       *time.Time `json:"time"`
	Valid      bool       `json:"valid"`
	Lat        *float64   `json:"lat"`
	Lon        *float64   `json:"lon"`
	SpeedKph   *float64   `json:"speedKph"`
	Course     *float64   `json:"course"`
	Raw        string     `json:"raw"`
	ReceivedAt time.Time  `json:"receivedAt"`
}

// Event is a non-positional device message (heartbeat, alarm, link check).
type Event struct {
	DeviceID   string    `json:"deviceId"`
	Vendor     string    `json:"vendor"`
	Cmd        string    `json:"cmd"`
	Raw        string    `json:"raw"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Record is the outcome of decoding one frame: exactly one of Position
// or Event is set.
type Record struct {
	Position *Position
	Event    *Event
}

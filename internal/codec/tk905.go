package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TK905 frame layout (ASCII, no length prefix):
//
//	[<vendor>*<deviceId>*<ignored>*<cmd>,<ddmmyy>,<hhmmss>,<A|V>,<latMag>,<N|S>,<lonMag>,<E|W>,<speedKph>,<course>[,...]]
//
// A payload with fewer than nine CSV fields after cmd carries no fix and is
// decoded as an Event instead.
const minPositionFields = 9

// Decode parses one complete frame, brackets included. A structurally
// broken frame (fewer than four *-components) returns an error and is
// dropped by the caller; a well-formed frame with bad individual fields
// still decodes, with the bad fields set to nil.
func Decode(frame []byte, receivedAt time.Time) (*Record, error) {
	body := string(frame)
	if len(body) >= 2 && body[0] == '[' && body[len(body)-1] == ']' {
		body = body[1 : len(body)-1]
	}

	parts := strings.Split(body, "*")
	if len(parts) < 4 {
		return nil, fmt.Errorf("malformed frame: %d components, want >= 4", len(parts))
	}
	vendor := parts[0]
	deviceID := parts[1]
	// parts[2] is a device-side sequence marker, not used.
	payload := strings.Join(parts[3:], "*")

	fields := strings.Split(payload, ",")
	cmd := fields[0]
	tail := fields[1:]

	if len(tail) < minPositionFields {
		return &Record{Event: &Event{
			DeviceID:   deviceID,
			Vendor:     vendor,
			Cmd:        cmd,
			Raw:        payload,
			ReceivedAt: receivedAt,
		}}, nil
	}

	pos := &Position{
		DeviceID:   deviceID,
		Vendor:     vendor,
		Cmd:        cmd,
		Time:       ParseTimestamp(tail[0], tail[1]),
		Valid:      tail[2] == "A",
		Lat:        SignedCoord(tail[3], tail[4]),
		Lon:        SignedCoord(tail[5], tail[6]),
		SpeedKph:   parseFloatField(tail[7]),
		Course:     parseFloatField(tail[8]),
		Raw:        payload,
		ReceivedAt: receivedAt,
	}
	return &Record{Position: pos}, nil
}

func parseFloatField(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

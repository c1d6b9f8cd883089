package types

import "time"

// EventType is the fixed marker carried by every broadcast message.
const EventType = "server log"

// Instance is the wire representation of a managed instance.
type Instance struct {
	// Opaque identifier assigned at creation.
	// example: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
	ID string `json:"id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	// Current state: stopped or started.
	// example: stopped
	State string `json:"state" example:"stopped"`
}

// LogMessage is the JSON payload pushed to event stream subscribers.
type LogMessage struct {
	// Always "server log".
	// example: server log
	Type string `json:"type" example:"server log"`
	// Affected instance id.
	// example: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
	ID string `json:"id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	// Short status token.
	// example: Created
	Msg string `json:"msg" example:"Created"`
	// Emission time.
	// example: 2024-01-02T15:04:05.000Z
	Date JSTime `json:"date" swaggertype:"string" example:"2024-01-02T15:04:05.000Z"`
}

// JSTime marshals like a JavaScript Date: UTC with millisecond precision.
type JSTime time.Time

const jsTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func (t JSTime) MarshalJSON() ([]byte, error) {
	s := time.Time(t).UTC().Format(jsTimeLayout)
	return []byte(`"` + s + `"`), nil
}

func (t *JSTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339Nano+`"`, string(b))
	if err != nil {
		return err
	}
	*t = JSTime(parsed)
	return nil
}

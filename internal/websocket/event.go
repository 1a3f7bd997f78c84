package websocket

import "encoding/json"

// Severity levels understood by the frontend toast component.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
)

// Event is the payload pushed to connected clients.
type Event struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Encode marshals the event for the wire. Marshalling a flat struct of two
// strings cannot fail, so errors are swallowed.
func (e Event) Encode() []byte {
	raw, _ := json.Marshal(e)
	return raw
}

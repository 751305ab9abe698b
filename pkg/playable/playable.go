package playable

import (
	"fmt"
	"math"
	"time"

	"blackjack-server/pkg/deck"

	"github.com/google/uuid"
)

// LogMessage is the format a game should send log messages in
// If Names is empty, assume it's a general statement, otherwise "{}" in the message is the named player
// Log messages are broadcast, so they only carry display names and never player IDs
type LogMessage struct {
	UUID    string       `json:"uuid"`
	Names   []string     `json:"names"`
	Cards   []*deck.Card `json:"cards"`
	Message string       `json:"message"`
	Time    time.Time    `json:"time"`
}

// Response is a container to determine who gets the specified message
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// ErrorResponse returns a response describing the error
func ErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
// JSON numbers with a fraction or outside of the int32 range are rejected
func (a AdditionalData) GetInt(key string) (int, bool) {
	switch val := a[key].(type) {
	case float64:
		if val != math.Trunc(val) || val > math.MaxInt32 || val < math.MinInt32 {
			return 0, false
		}

		return int(val), true
	case int:
		if val > math.MaxInt32 || val < math.MinInt32 {
			return 0, false
		}

		return val, true
	}

	return 0, false
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(name string, format string, a ...interface{}) *LogMessage {
	var names []string
	if name != "" {
		names = []string{name}
	}

	return &LogMessage{
		UUID:    uuid.New().String(),
		Names:   names,
		Message: fmt.Sprintf(format, a...),
		Time:    time.Now(),
	}
}

// CardLogMessageSlice returns a single log message that shows the cards
func CardLogMessageSlice(name string, cards []*deck.Card, format string, a ...interface{}) []*LogMessage {
	lm := SimpleLogMessage(name, format, a...)
	lm.Cards = cards
	return []*LogMessage{lm}
}

// SimpleLogMessageSlice returns a single log message
func SimpleLogMessageSlice(name string, format string, a ...interface{}) []*LogMessage {
	return []*LogMessage{SimpleLogMessage(name, format, a...)}
}

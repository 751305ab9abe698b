package room

import (
	"blackjack-server/pkg/playable"
)

// clients joining mid-session only see the tail of the table log
const logMessageLimit = 25

// addLogMessages appends to the table log and drops anything past the limit
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	d.logMessages = append(d.logMessages, messages...)
	if over := len(d.logMessages) - logMessageLimit; over > 0 {
		d.logMessages = append([]*playable.LogMessage(nil), d.logMessages[over:]...)
	}
}

// recentLogMessages returns a copy of the table log that is safe to hand to a client
// Note: this must only be called from within the run loop
func (d *Dealer) recentLogMessages() []*playable.LogMessage {
	if len(d.logMessages) == 0 {
		return nil
	}

	return append([]*playable.LogMessage(nil), d.logMessages...)
}

package debugcore

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSendAmount is the token amount the tester sends to itself.
const DefaultSendAmount = "0.01"

// Options are shared by the gate, the debugger and its panels.
type Options struct {
	// SendAmount is a decimal token amount, parsed with the token's live decimals.
	SendAmount string
	// Logf mirrors events into a front-end log (GUI log window, CLI stdout).
	Logf func(format string, a ...any)
	// Now stamps outcomes; tests pin it.
	Now func() time.Time
	// NewID names outcomes.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.SendAmount == "" {
		o.SendAmount = DefaultSendAmount
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

func (o Options) logf(format string, a ...any) {
	if o.Logf != nil {
		o.Logf(format, a...)
	}
}

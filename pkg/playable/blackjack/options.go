package blackjack

import (
	"fmt"
	"math"
)

// MaxBalance is the most chips a seat can hold
const MaxBalance = math.MaxInt32

// Options are the table rules
type Options struct {
	Seats          int // Default: 7
	DealerStandsOn int // Default: 17, the dealer hits anything lower
}

// DefaultOptions returns the default table rules
func DefaultOptions() Options {
	return Options{
		Seats:          7,
		DealerStandsOn: 17,
	}
}

// Validate returns an error if the rules cannot be played
func (o Options) Validate() error {
	if o.Seats < 1 {
		return fmt.Errorf("seats must be > 0, got %d", o.Seats)
	}

	if o.DealerStandsOn < 2 || o.DealerStandsOn > 21 {
		return fmt.Errorf("dealer must stand on a value between 2 and 21, got %d", o.DealerStandsOn)
	}

	return nil
}

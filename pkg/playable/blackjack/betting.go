package blackjack

import "github.com/sirupsen/logrus"

// PlaceBet records a wager for the seat
// While betting is open the bet replaces any earlier bet for the round. After
// settlement it is queued for the next round, and only one decision can be
// queued. A bet of 0 sits the round out.
func (g *Game) PlaceBet(seatIdx int, amount int) error {
	seat, err := g.seatAt(seatIdx)
	if err != nil {
		return err
	}

	if amount < 0 {
		return ErrInvalidAmount
	}

	switch g.state.Phase {
	case PhaseBet:
		// the previous wager is returned before the new one is taken
		previous := seat.firstBet()
		if amount > seat.Balance+previous {
			return ErrInsufficientBalance
		}

		seat.Balance += previous - amount
		seat.resetHands(amount)
	case PhaseSettle:
		if seat.NextBet != nil {
			return ErrBetAlreadyQueued
		}

		if amount > seat.Balance {
			return ErrInsufficientBalance
		}

		seat.Balance -= amount
		seat.NextBet = &amount
	default:
		return ErrBettingClosed
	}

	g.logger.WithFields(logrus.Fields{
		"seat":   seatIdx,
		"amount": amount,
		"phase":  g.state.Phase,
	}).Debug("bet placed")

	if amount == 0 {
		g.sendLogMessage(seat, "{} is sitting out")
	} else {
		g.sendLogMessage(seat, "{} bet %d", amount)
	}

	return nil
}

// AllBetsQueued returns true if every seated player decided on a wager for the next round
func (g *Game) AllBetsQueued() bool {
	for _, seat := range g.state.Seats {
		if seat != nil && seat.NextBet == nil {
			return false
		}
	}

	return true
}

// allBetsPlaced returns true if every seated player decided on a wager for the current round
func (g *Game) allBetsPlaced() bool {
	for _, seat := range g.state.Seats {
		if seat != nil && !seat.hasBet() {
			return false
		}
	}

	return true
}

package blackjack

import "github.com/sirupsen/logrus"

// PrepareNextRound resets the table for the next round
// Every seat's queued bet becomes its wager. Disconnected players stay
// disconnected until they rejoin.
func (g *Game) PrepareNextRound() error {
	if g.state.Phase != PhaseSettle {
		return ErrRoundInProgress
	}

	g.state.Deck.Shuffle()
	g.state.Dealer = nil
	g.state.CurrentSeat = nil
	g.state.Results = nil
	g.state.Phase = PhaseBet
	g.state.Round++

	for _, seat := range g.state.Seats {
		if seat == nil {
			continue
		}

		bet := 0
		if seat.NextBet != nil {
			bet = *seat.NextBet
		}

		seat.resetHands(bet)
		seat.Done = false
		seat.NextBet = nil
	}

	g.logger.WithFields(logrus.Fields{
		"round": g.state.Round,
	}).Debug("new round")
	g.sendLogMessage(nil, "Round %d", g.state.Round)

	return nil
}

package blackjack

import (
	"blackjack-server/pkg/deck"

	"github.com/sirupsen/logrus"
)

// Outcome is how a hand ended against the dealer
type Outcome string

// Outcome constants
const (
	OutcomeBust      Outcome = "bust"
	OutcomeLose      Outcome = "lose"
	OutcomePush      Outcome = "push"
	OutcomeWin       Outcome = "win"
	OutcomeBlackjack Outcome = "blackjack"
)

// HandResult is the settlement of a single wagered hand
// Payout is everything credited back to the balance, stake included
type HandResult struct {
	SeatIdx     int       `json:"seatIdx"`
	PlayerID    string    `json:"playerId"`
	Name        string    `json:"name"`
	HandIdx     int       `json:"handIdx"`
	Hand        deck.Hand `json:"hand"`
	Bet         int       `json:"bet"`
	Payout      int       `json:"payout"`
	Outcome     Outcome   `json:"outcome"`
	HandValue   int       `json:"handValue"`
	DealerValue int       `json:"dealerValue"`
}

// Net returns the chips won (or lost, if negative) on the hand
func (h *HandResult) Net() int {
	return h.Payout - h.Bet
}

// finishRound plays the dealer's hand and settles every bet
// This is the single place a round ends, no matter which action finished it
func (g *Game) finishRound() {
	g.playDealer()
	g.settleBets()
}

// playDealer draws until the dealer reaches the stand value
func (g *Game) playDealer() {
	for g.state.Dealer.Value() < g.options.DealerStandsOn {
		g.state.Dealer.AddCard(g.dealCard())
	}

	g.sendLogMessage(nil, "Dealer has %d", g.state.Dealer.Value())
}

// settleBets pays out every hand with a bet on it
func (g *Game) settleBets() {
	dealerValue := g.state.Dealer.Value()
	results := make([]*HandResult, 0)

	for seatIdx, seat := range g.state.Seats {
		if seat == nil {
			continue
		}

		for handIdx, hand := range seat.Hands {
			bet := seat.Bets[handIdx]
			if bet <= 0 {
				continue
			}

			result := settleHand(hand, bet, dealerValue)
			result.SeatIdx = seatIdx
			result.PlayerID = seat.PlayerID
			result.Name = seat.Name
			result.HandIdx = handIdx

			seat.Balance += result.Payout
			results = append(results, result)

			switch result.Outcome {
			case OutcomeBust, OutcomeLose:
				g.sendLogMessage(seat, "{} lost %d", bet)
			case OutcomePush:
				g.sendLogMessage(seat, "{} pushed")
			default:
				g.sendLogMessage(seat, "{} won %d", result.Net())
			}
		}
	}

	g.state.Results = results
	g.enterSettle()

	g.logger.WithFields(logrus.Fields{
		"round":  g.state.Round,
		"dealer": dealerValue,
		"hands":  len(results),
	}).Debug("round settled")
}

// settleHand compares a hand against the dealer's final value
func settleHand(hand deck.Hand, bet int, dealerValue int) *HandResult {
	value := hand.Value()
	result := &HandResult{
		Hand:        hand.Clone(),
		Bet:         bet,
		HandValue:   value,
		DealerValue: dealerValue,
	}

	switch {
	case hand.IsBust():
		result.Outcome = OutcomeBust
	case dealerValue > 21 || value > dealerValue:
		if hand.IsBlackjack() {
			// pays 3:2, an odd chip's half is kept by the house
			result.Outcome = OutcomeBlackjack
			result.Payout = bet*2 + bet/2
		} else {
			result.Outcome = OutcomeWin
			result.Payout = bet * 2
		}
	case value == dealerValue:
		result.Outcome = OutcomePush
		result.Payout = bet
	default:
		result.Outcome = OutcomeLose
	}

	return result
}

// enterSettle moves the round to settlement
// Players who are offline have a skip queued for the next round
func (g *Game) enterSettle() {
	g.state.Phase = PhaseSettle
	for _, seat := range g.state.Seats {
		if seat != nil && !seat.Connected && seat.NextBet == nil {
			skip := 0
			seat.NextBet = &skip
		}
	}
}

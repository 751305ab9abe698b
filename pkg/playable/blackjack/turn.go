package blackjack

import (
	"blackjack-server/pkg/deck"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
)

// StartPlay closes betting and deals the round
// It does nothing until every seated player has decided on a wager. If nobody
// is wagering the round goes straight to settlement.
func (g *Game) StartPlay() {
	if g.state.Phase != PhaseBet || !g.allBetsPlaced() {
		return
	}

	active := funk.Filter(g.state.Seats, func(s *Seat) bool {
		return s != nil && s.firstBet() > 0
	}).([]*Seat)

	if len(active) == 0 {
		g.logger.WithField("round", g.state.Round).Debug("everyone sat out")
		g.enterSettle()
		return
	}

	for _, seat := range g.state.Seats {
		if seat == nil {
			continue
		}

		if seat.firstBet() == 0 {
			seat.Done = true
			continue
		}

		hand := &seat.Hands[0]
		hand.AddCard(g.dealCard())
		hand.AddCard(g.dealCard())
		seat.ActiveHand = 0
		seat.Done = false

		if hand.IsBlackjack() {
			seat.ActiveHand = len(seat.Hands)
			seat.Done = true
			g.sendLogMessage(seat, "{} has blackjack")
		}
	}

	// the dealer's second card is drawn when the dealer plays
	g.state.Dealer.AddCard(g.dealCard())
	g.state.Phase = PhasePlay
	g.state.CurrentSeat = nil

	g.logger.WithFields(logrus.Fields{
		"round":  g.state.Round,
		"active": len(active),
	}).Debug("cards dealt")

	for i, seat := range g.state.Seats {
		if seat != nil && !seat.Done {
			idx := i
			g.state.CurrentSeat = &idx
			return
		}
	}

	g.finishRound()
}

// Hit deals another card to the active hand
// Reaching 21 or more ends the hand
func (g *Game) Hit(seatIdx int) error {
	seat, err := g.actingSeat(seatIdx)
	if err != nil {
		return err
	}

	hand := &seat.Hands[seat.ActiveHand]
	card := g.dealCard()
	hand.AddCard(card)
	g.sendCardLogMessage(seat, []*deck.Card{card}, "{} hit and drew %s", card.String())
	if hand.IsBust() {
		g.sendLogMessage(seat, "{} busted with %d", hand.Value())
	}

	if hand.Value() >= 21 {
		g.advanceHand(seat)
	}

	return nil
}

// Stand ends the active hand
func (g *Game) Stand(seatIdx int) error {
	seat, err := g.actingSeat(seatIdx)
	if err != nil {
		return err
	}

	g.sendLogMessage(seat, "{} stood on %d", seat.Hands[seat.ActiveHand].Value())
	g.advanceHand(seat)
	return nil
}

// Double doubles the bet on a two-card hand, deals exactly one more card and ends the hand
func (g *Game) Double(seatIdx int) error {
	seat, err := g.actingSeat(seatIdx)
	if err != nil {
		return err
	}

	hand := &seat.Hands[seat.ActiveHand]
	if len(*hand) != 2 {
		return ErrCannotDouble
	}

	bet := seat.Bets[seat.ActiveHand]
	if seat.Balance < bet {
		return ErrInsufficientBalance
	}

	seat.Balance -= bet
	seat.Bets[seat.ActiveHand] += bet

	card := g.dealCard()
	hand.AddCard(card)
	g.sendCardLogMessage(seat, []*deck.Card{card}, "{} doubled to %d and drew %s", seat.Bets[seat.ActiveHand], card.String())

	g.advanceHand(seat)
	return nil
}

// Split splits a pair into two hands, each with its own copy of the bet
// The player keeps acting on the first of the two hands
func (g *Game) Split(seatIdx int) error {
	seat, err := g.actingSeat(seatIdx)
	if err != nil {
		return err
	}

	active := seat.ActiveHand
	hand := seat.Hands[active]
	if len(hand) != 2 || hand[0].Rank != hand[1].Rank {
		return ErrCannotSplit
	}

	bet := seat.Bets[active]
	if seat.Balance < bet {
		return ErrInsufficientBalance
	}

	seat.Balance -= bet

	// hands and bets are grown together so they stay index-aligned
	first := hand[:1].Clone()
	second := hand[1:].Clone()
	seat.Hands = append(seat.Hands[:active], append([]deck.Hand{first, second}, seat.Hands[active+1:]...)...)
	seat.Bets = append(seat.Bets[:active+1], append([]int{bet}, seat.Bets[active+1:]...)...)

	drawn := []*deck.Card{g.dealCard(), g.dealCard()}
	seat.Hands[active].AddCard(drawn[0])
	seat.Hands[active+1].AddCard(drawn[1])

	g.sendCardLogMessage(seat, drawn, "{} split %s-%s", hand[0].Rank, hand[1].Rank)
	return nil
}

// advanceHand moves the seat to its next hand and passes the turn when the seat has none left
func (g *Game) advanceHand(seat *Seat) {
	seat.ActiveHand++
	if seat.ActiveHand >= len(seat.Hands) {
		seat.Done = true
		g.nextTurn()
	}
}

// nextTurn passes the turn to the next seat that still has to act
// The search only moves forward; when no seat is left the dealer plays.
func (g *Game) nextTurn() {
	from := -1
	if g.state.CurrentSeat != nil {
		from = *g.state.CurrentSeat
	}

	for i := from + 1; i < len(g.state.Seats); i++ {
		if seat := g.state.Seats[i]; seat != nil && !seat.Done {
			idx := i
			g.state.CurrentSeat = &idx
			return
		}
	}

	g.state.CurrentSeat = nil
	g.finishRound()
}

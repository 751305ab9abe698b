package blackjack

import (
	"blackjack-server/pkg/deck"
	"blackjack-server/pkg/playable"
)

// PublicState is the state of the table as every observer sees it
// The order of the deck is hidden, only the number of cards left is shown
type PublicState struct {
	*GameState
	CardsLeft int `json:"cardsLeft"`
}

// ParticipantState is the state sent to a single connection
type ParticipantState struct {
	GameState *PublicState `json:"gameState"`
	SeatIdx   *int         `json:"seatIdx"`
	Actions   []Action     `json:"actions"`
}

// State returns a deep copy of the complete state, deck included
func (g *Game) State() *GameState {
	s := g.state
	cp := &GameState{
		Deck:   &deck.Deck{Cards: append([]*deck.Card{}, s.Deck.Cards...)},
		Seats:  make([]*Seat, len(s.Seats)),
		Dealer: s.Dealer.Clone(),
		Phase:  s.Phase,
		Round:  s.Round,
	}

	for i, seat := range s.Seats {
		if seat != nil {
			cp.Seats[i] = seat.clone()
		}
	}

	if s.CurrentSeat != nil {
		currentSeat := *s.CurrentSeat
		cp.CurrentSeat = &currentSeat
	}

	if s.Results != nil {
		cp.Results = make([]*HandResult, len(s.Results))
		for i, result := range s.Results {
			r := *result
			r.Hand = result.Hand.Clone()
			cp.Results[i] = &r
		}
	}

	return cp
}

// PublicState returns a copy of the state with the deck redacted
// Player IDs reclaim seats, so they are stripped along with connection IDs
func (g *Game) PublicState() *PublicState {
	state := g.State()
	cardsLeft := state.Deck.CardsLeft()
	state.Deck = nil

	for _, seat := range state.Seats {
		if seat != nil {
			seat.PlayerID = ""
			seat.ConnectionID = ""
		}
	}

	for _, result := range state.Results {
		result.PlayerID = ""
	}

	return &PublicState{
		GameState: state,
		CardsLeft: cardsLeft,
	}
}

// GetPlayerState returns the current state of the game for the connection
func (g *Game) GetPlayerState(connectionID string) (*playable.Response, error) {
	ps := &ParticipantState{
		GameState: g.PublicState(),
		Actions:   g.getActionsForConnection(connectionID),
	}

	if idx, found := g.SeatByConnection(connectionID); found {
		ps.SeatIdx = &idx
	}

	return &playable.Response{
		Key:   "game",
		Value: g.Key(),
		Data:  ps,
	}, nil
}

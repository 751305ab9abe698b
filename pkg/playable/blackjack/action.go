package blackjack

import (
	"encoding/json"
	"errors"
	"fmt"

	"blackjack-server/pkg/playable"
)

// Action is an action a seated player can take
type Action int

// Action constants
const (
	ActionBet Action = iota
	ActionHit
	ActionStand
	ActionDouble
	ActionSplit
	ActionBuyIn
	ActionQuit
)

var actionNames = map[Action]string{
	ActionBet:    "bet",
	ActionHit:    "hit",
	ActionStand:  "stand",
	ActionDouble: "double",
	ActionSplit:  "split",
	ActionBuyIn:  "buyIn",
	ActionQuit:   "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	panic(fmt.Sprintf("invalid action: %d", a))
}

// MarshalJSON encodes the JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(a),
		Name: a.String(),
	})
}

// ActionFromString returns an action from its name
func ActionFromString(s string) (Action, error) {
	for action, name := range actionNames {
		if name == s {
			return action, nil
		}
	}

	return -1, fmt.Errorf("unknown action: %s", s)
}

// getActionsForConnection returns what the player on the connection can do right now
func (g *Game) getActionsForConnection(connectionID string) []Action {
	idx, found := g.SeatByConnection(connectionID)
	if !found {
		return nil
	}

	seat := g.state.Seats[idx]
	actions := []Action{ActionBuyIn, ActionQuit}

	switch g.state.Phase {
	case PhaseBet:
		return append(actions, ActionBet)
	case PhaseSettle:
		if seat.NextBet == nil {
			return append(actions, ActionBet)
		}
	case PhasePlay:
		if g.state.CurrentSeat == nil || *g.state.CurrentSeat != idx {
			return actions
		}

		actions = append(actions, ActionHit, ActionStand)
		hand := seat.Hands[seat.ActiveHand]
		bet := seat.Bets[seat.ActiveHand]
		if len(hand) == 2 && seat.Balance >= bet {
			actions = append(actions, ActionDouble)
			if hand[0].Rank == hand[1].Rank {
				actions = append(actions, ActionSplit)
			}
		}
	}

	return actions
}

// Action performs a message sent by the connection
// If playerResponse is not null, that's the response sent directly to the client
// If updateState is true, every connected client should receive the new state
func (g *Game) Action(connectionID string, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	if message.Action == "join" {
		return g.join(connectionID, message.AdditionalData)
	}

	action, err := ActionFromString(message.Action)
	if err != nil {
		return nil, false, err
	}

	seatIdx, found := g.SeatByConnection(connectionID)
	if !found {
		return nil, false, ErrNotSeated
	}

	switch action {
	case ActionBet:
		amount, ok := message.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, errors.New("missing or invalid 'amount' parameter")
		}

		err = g.PlaceBet(seatIdx, amount)
	case ActionBuyIn:
		amount, ok := message.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, errors.New("missing or invalid 'amount' parameter")
		}

		err = g.BuyIn(seatIdx, amount)
	case ActionHit:
		err = g.Hit(seatIdx)
	case ActionStand:
		err = g.Stand(seatIdx)
	case ActionDouble:
		err = g.Double(seatIdx)
	case ActionSplit:
		err = g.Split(seatIdx)
	case ActionQuit:
		g.LeaveSeat(connectionID)
	}

	if err != nil {
		return nil, false, err
	}

	return playable.OK(), true, nil
}

func (g *Game) join(connectionID string, data playable.AdditionalData) (*playable.Response, bool, error) {
	var req JoinRequest
	if name, ok := data.GetString("name"); ok {
		req.Name = &name
	}

	if balance, ok := data.GetInt("balance"); ok {
		req.Balance = &balance
	}

	req.PlayerID, _ = data.GetString("playerId")

	result, err := g.JoinSeat(connectionID, req)
	if err != nil {
		return nil, false, err
	}

	return &playable.Response{
		Key:  "joined",
		Data: result,
	}, true, nil
}

package blackjack

import (
	"crypto/sha256"
	"encoding/hex"

	"blackjack-server/pkg/deck"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Seat is a player sitting at the table
// Bets and Hands are index-aligned, ActiveHand is the hand being played and
// equals len(Hands) once the seat has nothing left to act on
type Seat struct {
	PlayerID     string      `json:"playerId"`
	ConnectionID string      `json:"connectionId"`
	Connected    bool        `json:"connected"`
	Name         string      `json:"name"`
	Balance      int         `json:"balance"`
	Bets         []int       `json:"bets"`
	Hands        []deck.Hand `json:"hands"`
	ActiveHand   int         `json:"activeHand"`
	Done         bool        `json:"done"`
	// NextBet is nil until the seat decides on a wager for the next round
	NextBet *int `json:"nextBet"`
}

// JoinRequest is a request to sit down or to reclaim a seat
type JoinRequest struct {
	Name     *string
	Balance  *int
	PlayerID string
}

// JoinResult identifies the seat that was taken
// It is only sent to the joining connection
type JoinResult struct {
	SeatIdx   int    `json:"seatIdx"`
	PlayerID  string `json:"playerId"`
	PlayerKey string `json:"playerKey"`
}

func newJoinResult(seatIdx int, playerID string) *JoinResult {
	return &JoinResult{
		SeatIdx:   seatIdx,
		PlayerID:  playerID,
		PlayerKey: PlayerKey(playerID),
	}
}

// PlayerKey returns a public digest of the player id
// The key names a player in round history without allowing the seat to be reclaimed
func PlayerKey(playerID string) string {
	sum := sha256.Sum256([]byte(playerID))
	return hex.EncodeToString(sum[:])
}

// hasBet returns true once the seat made its wager decision for the round
func (s *Seat) hasBet() bool {
	return len(s.Bets) > 0
}

// firstBet returns the round's opening wager, or 0 if there is none
func (s *Seat) firstBet() int {
	if len(s.Bets) == 0 {
		return 0
	}

	return s.Bets[0]
}

// resetHands leaves the seat with a single empty hand holding the bet
func (s *Seat) resetHands(bet int) {
	s.Bets = []int{bet}
	s.Hands = []deck.Hand{{}}
	s.ActiveHand = 0
}

func (s *Seat) clone() *Seat {
	cp := *s
	cp.Bets = append([]int{}, s.Bets...)
	cp.Hands = make([]deck.Hand, len(s.Hands))
	for i, hand := range s.Hands {
		cp.Hands[i] = hand.Clone()
	}

	if s.NextBet != nil {
		nextBet := *s.NextBet
		cp.NextBet = &nextBet
	}

	return &cp
}

// JoinSeat seats a new player or rebinds a returning player to a new connection
func (g *Game) JoinSeat(connectionID string, req JoinRequest) (*JoinResult, error) {
	if req.PlayerID != "" {
		for i, seat := range g.state.Seats {
			if seat != nil && seat.PlayerID == req.PlayerID {
				// a connection speaks for a single seat
				if owned, found := g.SeatByConnection(connectionID); found && owned != i {
					return nil, ErrAlreadySeated
				}

				seat.ConnectionID = connectionID
				seat.Connected = true

				g.logger.WithFields(logrus.Fields{
					"seat":     i,
					"playerId": seat.PlayerID,
				}).Info("player reconnected")
				g.sendLogMessage(seat, "{} reconnected")

				return newJoinResult(i, seat.PlayerID), nil
			}
		}
	}

	if req.Name == nil || req.Balance == nil {
		return nil, ErrNameAndBalanceRequired
	}

	if *req.Balance < 0 || *req.Balance > MaxBalance {
		return nil, ErrInvalidAmount
	}

	if _, found := g.SeatByConnection(connectionID); found {
		return nil, ErrAlreadySeated
	}

	idx := -1
	for i, seat := range g.state.Seats {
		if seat == nil {
			idx = i
			break
		}
	}

	if idx == -1 {
		return nil, ErrTableFull
	}

	seat := &Seat{
		PlayerID:     uuid.New().String(),
		ConnectionID: connectionID,
		Connected:    true,
		Name:         *req.Name,
		Balance:      *req.Balance,
		Bets:         []int{},
		Hands:        []deck.Hand{},
		// a player sitting down mid-round waits for the next one
		Done: g.state.Phase == PhasePlay,
	}

	g.state.Seats[idx] = seat

	g.logger.WithFields(logrus.Fields{
		"seat":     idx,
		"playerId": seat.PlayerID,
		"balance":  seat.Balance,
	}).Info("player joined")
	g.sendLogMessage(seat, "{} sat down with %d", seat.Balance)

	return newJoinResult(idx, seat.PlayerID), nil
}

// MarkDisconnected flags the seat bound to the connection as disconnected
// The seat is kept so the player can reconnect, but it is resolved so that it
// never holds up the rest of the table. Unknown connections are ignored.
func (g *Game) MarkDisconnected(connectionID string) {
	idx, found := g.SeatByConnection(connectionID)
	if !found {
		return
	}

	seat := g.state.Seats[idx]
	seat.Connected = false

	g.logger.WithFields(logrus.Fields{
		"seat":     idx,
		"playerId": seat.PlayerID,
		"phase":    g.state.Phase,
	}).Info("player disconnected")

	switch g.state.Phase {
	case PhaseBet:
		// skip the round and give back anything already wagered
		seat.Balance += seat.firstBet()
		seat.resetHands(0)
		seat.Done = true
	case PhasePlay:
		if !seat.Done {
			// stand on everything that is left
			seat.ActiveHand = len(seat.Hands)
			seat.Done = true
			if g.state.CurrentSeat != nil && *g.state.CurrentSeat == idx {
				g.nextTurn()
			}
		}
	case PhaseSettle:
		if seat.NextBet == nil {
			skip := 0
			seat.NextBet = &skip
		}
	}
}

// LeaveSeat vacates the seat bound to the connection
// Wagers that have not been played are refunded, stakes on dealt hands are forfeit
func (g *Game) LeaveSeat(connectionID string) {
	idx, found := g.SeatByConnection(connectionID)
	if !found {
		return
	}

	seat := g.state.Seats[idx]
	if g.state.Phase == PhaseBet {
		seat.Balance += seat.firstBet()
	}

	if seat.NextBet != nil {
		seat.Balance += *seat.NextBet
	}

	g.state.Seats[idx] = nil

	g.logger.WithFields(logrus.Fields{
		"seat":     idx,
		"playerId": seat.PlayerID,
		"balance":  seat.Balance,
	}).Info("player left")
	g.sendLogMessage(seat, "{} left the table with %d", seat.Balance)

	if g.state.Phase == PhasePlay && g.state.CurrentSeat != nil && *g.state.CurrentSeat == idx {
		g.nextTurn()
	}
}

// BuyIn adds chips to the seat's balance
func (g *Game) BuyIn(seatIdx int, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	seat, err := g.seatAt(seatIdx)
	if err != nil {
		return err
	}

	if amount > MaxBalance-seat.Balance {
		return ErrBalanceLimit
	}

	seat.Balance += amount
	g.sendLogMessage(seat, "{} bought in for %d", amount)
	return nil
}

package blackjack

import (
	"blackjack-server/internal/rng"
	"blackjack-server/pkg/deck"
	"blackjack-server/pkg/playable"

	"github.com/sirupsen/logrus"
)

// Phase is the phase of the current round
type Phase string

// Phase constants
const (
	// PhaseBet is when seats are placing their wagers
	PhaseBet Phase = "bet"
	// PhasePlay is when seats act on their hands, one seat at a time
	PhasePlay Phase = "play"
	// PhaseSettle is after the dealer played and the bets were paid out
	PhaseSettle Phase = "settle"
)

// GameState is the complete state of the table
type GameState struct {
	Deck        *deck.Deck    `json:"-"`
	Seats       []*Seat       `json:"seats"`
	Dealer      deck.Hand     `json:"dealer"`
	CurrentSeat *int          `json:"currentSeat"`
	Phase       Phase         `json:"phase"`
	Round       int           `json:"round"`
	Results     []*HandResult `json:"results"`
}

// Game is a table of blackjack
// Game does no locking of its own, the caller must serialize every call
type Game struct {
	options Options
	state   *GameState
	rng     rng.Generator
	logger  logrus.FieldLogger
	logChan chan []*playable.LogMessage
}

// NewGame returns a new game with every seat empty
// If gen is nil, decks are shuffled with a cryptographically secure generator
func NewGame(logger logrus.FieldLogger, gen rng.Generator, opts Options) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if gen == nil {
		gen = rng.Crypto{}
	}

	g := &Game{
		options: opts,
		rng:     gen,
		logger:  logger,
		logChan: make(chan []*playable.LogMessage, 256),
		state: &GameState{
			Deck:  deck.New(gen),
			Seats: make([]*Seat, opts.Seats),
			Phase: PhaseBet,
			Round: 1,
		},
	}

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "Blackjack"
}

// Key returns a unique key
func (g *Game) Key() string {
	return "blackjack"
}

// Phase returns the phase of the current round
func (g *Game) Phase() Phase {
	return g.state.Phase
}

// Round returns the current round number
func (g *Game) Round() int {
	return g.state.Round
}

// LogChan returns a channel the game sends table log messages to
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// dealCard draws the next card from the deck
// A busy table with many splits can run a single deck dry, in which case a fresh deck is shuffled in
func (g *Game) dealCard() *deck.Card {
	if !g.state.Deck.CanDraw(1) {
		g.logger.WithField("round", g.state.Round).Warn("deck exhausted mid-round, shuffling a new deck")
		g.state.Deck.Shuffle()
	}

	card, err := g.state.Deck.Draw()
	if err != nil {
		panic(err)
	}

	return card
}

// seatAt returns the occupied seat at the index
func (g *Game) seatAt(seatIdx int) (*Seat, error) {
	if seatIdx < 0 || seatIdx >= len(g.state.Seats) {
		return nil, ErrInvalidSeat
	}

	seat := g.state.Seats[seatIdx]
	if seat == nil {
		return nil, ErrSeatEmpty
	}

	return seat, nil
}

// actingSeat returns the seat if it is the one holding the turn
func (g *Game) actingSeat(seatIdx int) (*Seat, error) {
	seat, err := g.seatAt(seatIdx)
	if err != nil {
		return nil, err
	}

	if g.state.Phase != PhasePlay || g.state.CurrentSeat == nil || *g.state.CurrentSeat != seatIdx {
		return nil, ErrNotYourTurn
	}

	return seat, nil
}

// SeatByConnection returns the index of the seat bound to the connection
func (g *Game) SeatByConnection(connectionID string) (int, bool) {
	for i, seat := range g.state.Seats {
		if seat != nil && seat.ConnectionID == connectionID {
			return i, true
		}
	}

	return -1, false
}

// SeatedCount returns the number of occupied seats, connected or not
func (g *Game) SeatedCount() int {
	count := 0
	for _, seat := range g.state.Seats {
		if seat != nil {
			count++
		}
	}

	return count
}

func (g *Game) sendLogMessage(seat *Seat, format string, a ...interface{}) {
	g.sendLog(playable.SimpleLogMessageSlice(seatName(seat), format, a...))
}

// sendCardLogMessage is sendLogMessage with the cards attached for display
func (g *Game) sendCardLogMessage(seat *Seat, cards []*deck.Card, format string, a ...interface{}) {
	g.sendLog(playable.CardLogMessageSlice(seatName(seat), cards, format, a...))
}

func seatName(seat *Seat) string {
	if seat == nil {
		return ""
	}

	return seat.Name
}

func (g *Game) sendLog(messages []*playable.LogMessage) {
	select {
	case g.logChan <- messages:
	default:
		g.logger.Debug("log channel is full, dropping message")
	}
}

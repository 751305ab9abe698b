package room

import (
	"context"
	"testing"
	"time"

	"blackjack-server/pkg/playable"
	"blackjack-server/pkg/playable/blackjack"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRound struct {
	tableID string
	state   *blackjack.GameState
}

type fakeRecorder struct {
	rounds chan recordedRound
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{rounds: make(chan recordedRound, 16)}
}

func (f *fakeRecorder) RecordRound(ctx context.Context, tableID string, state *blackjack.GameState) error {
	f.rounds <- recordedRound{tableID: tableID, state: state}
	return nil
}

func newTestPitBoss(t *testing.T, opts Options) *PitBoss {
	t.Helper()

	if opts.Game.Seats == 0 {
		opts.Game = blackjack.DefaultOptions()
	}

	p, err := NewPitBoss(logrus.StandardLogger(), opts)
	require.NoError(t, err)
	require.NoError(t, p.StartShift())
	t.Cleanup(p.EndShift)

	return p
}

// receive waits for the next response with the key, skipping anything else
func receive(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()

	timeout := time.After(time.Second * 2)
	for {
		select {
		case msg := <-c.SendChan():
			if resp, ok := msg.(*playable.Response); ok && resp.Key == key {
				return resp
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for message", key)
			return nil
		}
	}
}

func send(c *Client, action string, data playable.AdditionalData) {
	c.ReceivedMessage(&playable.PayloadIn{
		Action:         action,
		AdditionalData: data,
		Context:        action + "-ctx",
	})
}

func connect(t *testing.T, p *PitBoss, tableID string) *Client {
	t.Helper()

	c := NewClient(nil, tableID)
	p.ClientConnected(c)
	receive(t, c, "game")

	return c
}

func joinTable(t *testing.T, c *Client, name string) *blackjack.JoinResult {
	t.Helper()

	send(c, "join", playable.AdditionalData{"name": name, "balance": float64(100)})
	resp := receive(t, c, "joined")
	assert.Equal(t, "join-ctx", resp.Context)

	return resp.Data.(*blackjack.JoinResult)
}

func hasAction(actions []blackjack.Action, action blackjack.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}

	return false
}

// standUntilSettled stands on every turn the client gets until the round settles
func standUntilSettled(t *testing.T, c *Client) *blackjack.ParticipantState {
	t.Helper()

	for {
		ps := receive(t, c, "game").Data.(*blackjack.ParticipantState)
		switch ps.GameState.Phase {
		case blackjack.PhaseSettle:
			return ps
		case blackjack.PhasePlay:
			if hasAction(ps.Actions, blackjack.ActionStand) {
				send(c, "stand", nil)
			}
		}
	}
}

func TestNewPitBoss_InvalidOptions(t *testing.T) {
	_, err := NewPitBoss(logrus.StandardLogger(), Options{Game: blackjack.Options{Seats: 0, DealerStandsOn: 17}})
	assert.EqualError(t, err, "seats must be > 0, got 0")
}

func TestPitBoss_DefaultTable(t *testing.T) {
	p := newTestPitBoss(t, Options{DefaultTable: "main"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ps, err := p.PublicState(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, blackjack.PhaseBet, ps.Phase)
	assert.Equal(t, 1, ps.Round)
	assert.Equal(t, 52, ps.CardsLeft)
	assert.Nil(t, ps.Deck)

	_, err = p.PublicState(ctx, "other")
	assert.Equal(t, ErrTableNotFound, err)
}

func TestDealer_ErrorResponse(t *testing.T) {
	p := newTestPitBoss(t, Options{})
	c := connect(t, p, "t1")

	send(c, "hit", nil)
	resp := receive(t, c, "error")
	assert.Equal(t, "you are not seated", resp.Value)
	assert.Equal(t, "hit-ctx", resp.Context)

	send(c, "join", playable.AdditionalData{"name": "Alice"})
	resp = receive(t, c, "error")
	assert.Equal(t, "name and balance required", resp.Value)
}

func TestDealer_Round(t *testing.T) {
	recorder := newFakeRecorder()
	p := newTestPitBoss(t, Options{Seed: 1, Recorder: recorder})

	c := connect(t, p, "t1")
	result := joinTable(t, c, "Alice")
	assert.Equal(t, 0, result.SeatIdx)
	assert.NotEmpty(t, result.PlayerID)

	// everyone seated has bet, so the cards are dealt straight away
	send(c, "bet", playable.AdditionalData{"amount": float64(10)})
	resp := receive(t, c, "status")
	assert.Equal(t, "OK", resp.Value)
	assert.Equal(t, "bet-ctx", resp.Context)

	ps := standUntilSettled(t, c)
	assert.Equal(t, 1, ps.GameState.Round)
	require.Equal(t, 1, len(ps.GameState.Results))
	assert.Equal(t, 10, ps.GameState.Results[0].Bet)
	assert.True(t, hasAction(ps.Actions, blackjack.ActionBet))

	select {
	case round := <-recorder.rounds:
		assert.Equal(t, "t1", round.tableID)
		assert.Equal(t, 1, round.state.Round)
		assert.Equal(t, result.PlayerID, round.state.Results[0].PlayerID)
	case <-time.After(time.Second * 2):
		require.FailNow(t, "round was not recorded")
	}

	// queueing the only bet starts the next round
	send(c, "bet", playable.AdditionalData{"amount": float64(10)})
	ps = standUntilSettled(t, c)
	assert.Equal(t, 2, ps.GameState.Round)

	select {
	case round := <-recorder.rounds:
		assert.Equal(t, 2, round.state.Round)
	case <-time.After(time.Second * 2):
		require.FailNow(t, "round was not recorded")
	}
}

func TestDealer_SkippedRoundIsNotRecorded(t *testing.T) {
	recorder := newFakeRecorder()
	p := newTestPitBoss(t, Options{Recorder: recorder})

	c := connect(t, p, "t1")
	joinTable(t, c, "Alice")

	send(c, "bet", playable.AdditionalData{"amount": float64(0)})
	ps := standUntilSettled(t, c)
	assert.Equal(t, 0, len(ps.GameState.Results))

	select {
	case <-recorder.rounds:
		assert.Fail(t, "a round without wagers should not be recorded")
	case <-time.After(time.Millisecond * 100):
	}
}

func TestDealer_Reconnect(t *testing.T) {
	p := newTestPitBoss(t, Options{})

	c1 := connect(t, p, "t1")
	result := joinTable(t, c1, "Alice")
	p.ClientDisconnected(c1)

	// the seat keeps the table open
	c2 := NewClient(nil, "t1")
	p.ClientConnected(c2)
	ps := receiveSeat(t, c2, result.SeatIdx, false)
	assert.Equal(t, "Alice", ps.GameState.Seats[result.SeatIdx].Name)

	send(c2, "join", playable.AdditionalData{"playerId": result.PlayerID})
	rejoined := receive(t, c2, "joined").Data.(*blackjack.JoinResult)
	assert.Equal(t, *result, *rejoined)

	ps = receiveSeat(t, c2, result.SeatIdx, true)
	require.NotNil(t, ps.SeatIdx)
	assert.Equal(t, result.SeatIdx, *ps.SeatIdx)
	assert.Empty(t, ps.GameState.Seats[result.SeatIdx].PlayerID)
}

// receiveSeat waits for a state where the seat has the connected flag
func receiveSeat(t *testing.T, c *Client, seatIdx int, connected bool) *blackjack.ParticipantState {
	t.Helper()

	for {
		ps := receive(t, c, "game").Data.(*blackjack.ParticipantState)
		seat := ps.GameState.Seats[seatIdx]
		if seat != nil && seat.Connected == connected {
			return ps
		}
	}
}

func TestDealer_Broadcast(t *testing.T) {
	p := newTestPitBoss(t, Options{})

	c1 := connect(t, p, "t1")
	c2 := connect(t, p, "t1")
	joinTable(t, c1, "Alice")

	ps := receive(t, c2, "game").Data.(*blackjack.ParticipantState)
	assert.Nil(t, ps.SeatIdx)
	assert.Nil(t, ps.Actions)
	assert.Equal(t, "Alice", ps.GameState.Seats[0].Name)

	log := receive(t, c2, "log").Data.([]*playable.LogMessage)
	require.NotEmpty(t, log)
}

func TestPitBoss_ClosesEmptyTable(t *testing.T) {
	p := newTestPitBoss(t, Options{DefaultTable: "main"})

	c := connect(t, p, "t2")
	main := connect(t, p, "main")

	p.ClientDisconnected(c)
	p.ClientDisconnected(main)

	assert.Eventually(t, func() bool {
		_, err := p.Dealer(context.Background(), "t2")
		return err == ErrTableNotFound
	}, time.Second*2, time.Millisecond*10)

	// the default table stays open
	_, err := p.Dealer(context.Background(), "main")
	assert.NoError(t, err)
}

func TestPitBoss_KeepsSeatedTable(t *testing.T) {
	p := newTestPitBoss(t, Options{})

	c := connect(t, p, "t1")
	joinTable(t, c, "Alice")
	p.ClientDisconnected(c)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Eventually(t, func() bool {
		ps, err := p.PublicState(ctx, "t1")
		return err == nil && ps.Seats[0] != nil && !ps.Seats[0].Connected
	}, time.Second, time.Millisecond*10)
}

func TestDealer_addLogMessages(t *testing.T) {
	d := &Dealer{}
	for i := 0; i < logMessageLimit+5; i++ {
		d.addLogMessages(playable.SimpleLogMessageSlice("", "message %d", i))
	}

	require.Equal(t, logMessageLimit, len(d.logMessages))
	assert.Equal(t, "message 5", d.logMessages[0].Message)
	assert.Equal(t, "message 29", d.logMessages[logMessageLimit-1].Message)
}

func TestDealer_recentLogMessages(t *testing.T) {
	d := &Dealer{}
	assert.Nil(t, d.recentLogMessages())

	d.addLogMessages(playable.SimpleLogMessageSlice("Alice", "{} hit"))
	log := d.recentLogMessages()
	require.Equal(t, 1, len(log))

	// the copy does not see later messages
	d.addLogMessages(playable.SimpleLogMessageSlice("Alice", "{} stood"))
	assert.Equal(t, 1, len(log))
	assert.Equal(t, 2, len(d.recentLogMessages()))
}

func TestPitBoss_Tables(t *testing.T) {
	p := newTestPitBoss(t, Options{DefaultTable: "main"})
	connect(t, p, "b-side")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	tables, err := p.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b-side", "main"}, tables)
}

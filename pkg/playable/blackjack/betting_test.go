package blackjack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_PlaceBet_Increase(t *testing.T) {
	g := newTestGame(t)
	p := join(t, g, "s1", "Alice", 100)

	require.NoError(t, g.PlaceBet(p.SeatIdx, 10))
	s := seat(g, p.SeatIdx)
	assert.Equal(t, 90, s.Balance)
	assert.Equal(t, []int{10}, s.Bets)
	assert.Equal(t, 1, len(s.Hands))

	require.NoError(t, g.PlaceBet(p.SeatIdx, 20))
	assert.Equal(t, 80, s.Balance)
	assert.Equal(t, []int{20}, s.Bets)
}

func TestGame_PlaceBet_Decrease(t *testing.T) {
	g := newTestGame(t)
	p := join(t, g, "s1", "Alice", 100)

	require.NoError(t, g.PlaceBet(p.SeatIdx, 30))
	s := seat(g, p.SeatIdx)
	assert.Equal(t, 70, s.Balance)

	require.NoError(t, g.PlaceBet(p.SeatIdx, 10))
	assert.Equal(t, 90, s.Balance)
	assert.Equal(t, []int{10}, s.Bets)

	require.NoError(t, g.PlaceBet(p.SeatIdx, 0))
	assert.Equal(t, 100, s.Balance)
	assert.Equal(t, []int{0}, s.Bets)
}

func TestGame_PlaceBet_AllIn(t *testing.T) {
	g := newTestGame(t)
	p := join(t, g, "s1", "Alice", 100)

	require.NoError(t, g.PlaceBet(p.SeatIdx, 100))
	assert.Equal(t, 0, seat(g, p.SeatIdx).Balance)

	// the standing bet counts towards what can be wagered
	require.NoError(t, g.PlaceBet(p.SeatIdx, 100))
	assert.Equal(t, 0, seat(g, p.SeatIdx).Balance)

	assert.Equal(t, ErrInsufficientBalance, g.PlaceBet(p.SeatIdx, 101))
	assert.Equal(t, []int{100}, seat(g, p.SeatIdx).Bets)
}

func TestGame_PlaceBet_Errors(t *testing.T) {
	g := newTestGame(t)
	p := join(t, g, "s1", "Alice", 100)

	assert.Equal(t, ErrSeatEmpty, g.PlaceBet(1, 10))
	assert.Equal(t, ErrInvalidSeat, g.PlaceBet(7, 10))
	assert.Equal(t, ErrInvalidAmount, g.PlaceBet(p.SeatIdx, -5))
	assert.Equal(t, ErrInsufficientBalance, g.PlaceBet(p.SeatIdx, 101))
	assert.Equal(t, 100, seat(g, p.SeatIdx).Balance)
	assert.Equal(t, 0, len(seat(g, p.SeatIdx).Bets))

	stackDeck(g, "2s,3s,4s")
	require.NoError(t, g.PlaceBet(p.SeatIdx, 10))
	g.StartPlay()
	assert.Equal(t, ErrBettingClosed, g.PlaceBet(p.SeatIdx, 10))
	assert.Equal(t, 90, seat(g, p.SeatIdx).Balance)
}

func TestGame_PlaceBet_Queued(t *testing.T) {
	g := newTestGame(t)
	p1 := join(t, g, "s1", "Alice", 100)
	p2 := join(t, g, "s2", "Bob", 100)

	require.NoError(t, g.PlaceBet(p1.SeatIdx, 0))
	require.NoError(t, g.PlaceBet(p2.SeatIdx, 0))
	g.StartPlay()
	require.Equal(t, PhaseSettle, g.Phase())
	assert.False(t, g.AllBetsQueued())

	assert.Equal(t, ErrInsufficientBalance, g.PlaceBet(p1.SeatIdx, 101))
	require.NoError(t, g.PlaceBet(p1.SeatIdx, 20))
	assert.Equal(t, 80, seat(g, p1.SeatIdx).Balance)
	assert.Equal(t, 20, *seat(g, p1.SeatIdx).NextBet)
	assert.Equal(t, ErrBetAlreadyQueued, g.PlaceBet(p1.SeatIdx, 10))
	assert.Equal(t, 80, seat(g, p1.SeatIdx).Balance)
	assert.False(t, g.AllBetsQueued())

	// an explicit skip is a decision
	require.NoError(t, g.PlaceBet(p2.SeatIdx, 0))
	require.NotNil(t, seat(g, p2.SeatIdx).NextBet)
	assert.Equal(t, 0, *seat(g, p2.SeatIdx).NextBet)
	assert.True(t, g.AllBetsQueued())
	assert.Equal(t, ErrBetAlreadyQueued, g.PlaceBet(p2.SeatIdx, 10))
}

func TestGame_AllBetsQueued_EmptyTable(t *testing.T) {
	g := newTestGame(t)
	assert.True(t, g.AllBetsQueued())
}

// chips only enter or leave the table through settlement payouts
func TestGame_ChipConservation(t *testing.T) {
	g := newTestGame(t)
	r := rand.New(rand.NewSource(7)) // nolint:gosec

	conns := []string{"s1", "s2", "s3", "s4"}
	for _, conn := range conns {
		join(t, g, conn, conn, 500)
	}

	chips := func() int {
		total := 0
		for _, s := range g.state.Seats {
			if s == nil {
				continue
			}

			total += s.Balance
			if s.NextBet != nil {
				total += *s.NextBet
			}

			if g.state.Phase != PhaseSettle {
				for _, bet := range s.Bets {
					total += bet
				}
			}
		}

		return total
	}

	wager := func(s *Seat) int {
		if s.Balance == 0 {
			return 0
		}

		return r.Intn(minInt(s.Balance, 50) + 1)
	}

	for i, s := range g.state.Seats {
		if s != nil {
			require.NoError(t, g.PlaceBet(i, wager(s)))
		}
	}

	for round := 0; round < 300; round++ {
		require.Equal(t, PhaseBet, g.Phase())
		before := chips()
		g.StartPlay()

		for g.Phase() == PhasePlay {
			idx := currentSeat(g)
			require.NotEqual(t, -1, idx)

			var err error
			switch r.Intn(5) {
			case 0:
				err = g.Double(idx)
			case 1:
				err = g.Split(idx)
			case 2, 3:
				err = g.Hit(idx)
			default:
				err = g.Stand(idx)
			}

			if err != nil {
				require.NoError(t, g.Stand(idx))
			}

			for _, s := range g.state.Seats {
				if s != nil {
					require.Equal(t, len(s.Bets), len(s.Hands))
					require.True(t, s.ActiveHand >= 0 && s.ActiveHand <= len(s.Hands))
					require.True(t, s.Balance >= 0)
				}
			}
		}

		require.Equal(t, PhaseSettle, g.Phase())

		staked, paid := 0, 0
		for _, result := range g.state.Results {
			staked += result.Bet
			paid += result.Payout
		}

		assert.Equal(t, before-staked+paid, chips(), "round %d", round)

		settled := chips()
		for i, s := range g.state.Seats {
			if s == nil {
				continue
			}

			if s.Balance < 10 {
				require.NoError(t, g.BuyIn(i, 100))
				settled += 100
			}

			require.NoError(t, g.PlaceBet(i, wager(s)))
		}

		require.True(t, g.AllBetsQueued())
		assert.Equal(t, settled, chips())
		require.NoError(t, g.PrepareNextRound())
		assert.Equal(t, settled, chips())
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

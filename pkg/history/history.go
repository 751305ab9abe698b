// Package history keeps an audit log of settled rounds in Postgres
package history

import (
	"context"
	"database/sql"
	"time"

	"blackjack-server/pkg/db"
	"blackjack-server/pkg/deck"
	"blackjack-server/pkg/playable/blackjack"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Hand is a settled hand as it was recorded
// Player ids reclaim seats, so only the player's public key is kept
type Hand struct {
	SeatIdx   int               `json:"seatIdx"`
	HandIdx   int               `json:"handIdx"`
	PlayerKey string            `json:"playerKey"`
	Name      string            `json:"name"`
	Cards     []string          `json:"cards"`
	Bet       int               `json:"bet"`
	Payout    int               `json:"payout"`
	Outcome   blackjack.Outcome `json:"outcome"`
	HandValue int               `json:"handValue"`
}

// Round is a settled round as it was recorded
type Round struct {
	ID          int64     `json:"id"`
	TableID     string    `json:"tableId"`
	Round       int       `json:"round"`
	DealerCards []string  `json:"dealerCards"`
	DealerValue int       `json:"dealerValue"`
	Created     time.Time `json:"created"`
	Hands       []*Hand   `json:"hands"`
}

// RoundFromState builds the record of a settled round
func RoundFromState(tableID string, state *blackjack.GameState) *Round {
	r := &Round{
		TableID:     tableID,
		Round:       state.Round,
		DealerCards: cardStrings(state.Dealer),
		DealerValue: state.Dealer.Value(),
		Hands:       make([]*Hand, 0, len(state.Results)),
	}

	for _, result := range state.Results {
		r.Hands = append(r.Hands, &Hand{
			SeatIdx:   result.SeatIdx,
			HandIdx:   result.HandIdx,
			PlayerKey: blackjack.PlayerKey(result.PlayerID),
			Name:      result.Name,
			Cards:     cardStrings(result.Hand),
			Bet:       result.Bet,
			Payout:    result.Payout,
			Outcome:   result.Outcome,
			HandValue: result.HandValue,
		})
	}

	return r
}

func cardStrings(hand deck.Hand) []string {
	cards := make([]string, len(hand))
	for i, card := range hand {
		cards[i] = deck.CardToString(card)
	}

	return cards
}

// Store reads and writes round history
type Store struct {
	db *sql.DB
}

// NewStore returns a store backed by the database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordRound saves the results of a settled round
func (s *Store) RecordRound(ctx context.Context, tableID string, state *blackjack.GameState) error {
	return s.Save(ctx, RoundFromState(tableID, state))
}

// Save inserts the round and its hands
func (s *Store) Save(ctx context.Context, r *Round) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if !commit {
			if err := tx.Rollback(); err != nil {
				logrus.WithError(err).Error("could not rollback transaction")
			}
		}
	}()

	const query = `
INSERT INTO rounds (table_id, round, dealer_cards, dealer_value)
VALUES ($1, $2, $3, $4)
RETURNING id, created`

	row := tx.QueryRowContext(ctx, query, r.TableID, r.Round, pq.Array(r.DealerCards), r.DealerValue)
	if err := row.Scan(&r.ID, &r.Created); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO round_hands (round_id, seat_idx, hand_idx, player_key, name, cards, bet, payout, outcome, hand_value)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range r.Hands {
		if _, err := stmt.ExecContext(ctx, r.ID, h.SeatIdx, h.HandIdx, h.PlayerKey, h.Name, pq.Array(h.Cards), h.Bet, h.Payout, string(h.Outcome), h.HandValue); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	commit = true
	return nil
}

// ListOptions narrows and pages a history listing
type ListOptions struct {
	// PlayerKey only returns rounds the player had a hand in
	PlayerKey string
	Start    int64
	Rows     int
}

// ListRounds returns the table's rounds, newest first
func (s *Store) ListRounds(ctx context.Context, tableID string, opts ListOptions) ([]*Round, error) {
	const query = `
SELECT id, table_id, round, dealer_cards, dealer_value, created
FROM rounds
WHERE table_id = $1
  AND ($2 = '' OR EXISTS(SELECT 1 FROM round_hands WHERE round_hands.round_id = rounds.id AND round_hands.player_key = $2))
ORDER BY id DESC
OFFSET $3
LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, tableID, opts.PlayerKey, opts.Start, opts.Rows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*Round, 0)
	byID := make(map[int64]*Round)
	ids := make([]int64, 0)
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}

		rounds = append(rounds, r)
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return rounds, nil
	}

	const handsQuery = `
SELECT round_id, seat_idx, hand_idx, player_key, name, cards, bet, payout, outcome, hand_value
FROM round_hands
WHERE round_id = ANY($1)
ORDER BY round_id, seat_idx, hand_idx`

	handRows, err := s.db.QueryContext(ctx, handsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer handRows.Close()

	for handRows.Next() {
		roundID, h, err := scanHand(handRows)
		if err != nil {
			return nil, err
		}

		if r, ok := byID[roundID]; ok {
			r.Hands = append(r.Hands, h)
		}
	}

	return rounds, handRows.Err()
}

func scanRound(row db.Scanner) (*Round, error) {
	r := Round{Hands: make([]*Hand, 0)}
	if err := row.Scan(&r.ID, &r.TableID, &r.Round, pq.Array(&r.DealerCards), &r.DealerValue, &r.Created); err != nil {
		return nil, err
	}

	return &r, nil
}

func scanHand(row db.Scanner) (int64, *Hand, error) {
	var roundID int64
	var outcome string
	var h Hand
	if err := row.Scan(&roundID, &h.SeatIdx, &h.HandIdx, &h.PlayerKey, &h.Name, pq.Array(&h.Cards), &h.Bet, &h.Payout, &outcome, &h.HandValue); err != nil {
		return 0, nil, err
	}

	h.Outcome = blackjack.Outcome(outcome)
	return roundID, &h, nil
}

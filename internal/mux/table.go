package mux

import (
	"context"
	"errors"
	"net/http"

	"blackjack-server/pkg/history"
	"blackjack-server/pkg/room"

	"github.com/gorilla/mux"
)

// ErrHistoryDisabled is returned when no history store is configured
var ErrHistoryDisabled = errors.New("round history is not enabled")

func (m *Mux) getTableID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dealer := r.Context().Value(ctxDealerKey).(*room.Dealer)
		ps, err := dealer.PublicState(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, ps)
	})
}

func (m *Mux) getTableIDHistory() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rounds == nil {
			writeJSONError(w, http.StatusNotFound, ErrHistoryDisabled)
			return
		}

		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		rounds, err := m.rounds.ListRounds(r.Context(), mux.Vars(r)["id"], history.ListOptions{
			PlayerKey: r.FormValue("playerKey"),
			Start:     start,
			Rows:      rows,
		})
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, rounds)
	})
}

func (m *Mux) dealerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dealer, err := m.pitBoss.Dealer(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxDealerKey, dealer)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

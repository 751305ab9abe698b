package mux

import (
	"context"
	"net/http"

	"blackjack-server/pkg/history"
	"blackjack-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxDealerKey ctxKey = iota
)

const tableIDPattern = `{id:[A-Za-z0-9_-]{1,64}}`

// RoundLister lists recorded rounds
type RoundLister interface {
	ListRounds(ctx context.Context, tableID string, opts history.ListOptions) ([]*history.Round, error)
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
	rounds  RoundLister
}

// NewMux returns a new HTTP mux
// rounds may be nil, in which case round history is not served
func NewMux(version string, pitBoss *room.PitBoss, rounds RoundLister) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		rounds:  rounds,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())

	tr := r.PathPrefix("/table/" + tableIDPattern).Subrouter()
	tr.Methods(http.MethodGet).Path("").Handler(this.dealerMiddleware(this.getTableID()))
	tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())
	tr.Methods(http.MethodGet).Path("/history").Handler(this.getTableIDHistory())

	return this
}

package room

import (
	"context"
	"sync"
	"time"

	"blackjack-server/internal/rng"
	"blackjack-server/pkg/playable"
	"blackjack-server/pkg/playable/blackjack"

	"github.com/sirupsen/logrus"
)

const recordTimeout = time.Second * 10

// Recorder keeps a record of every settled round
type Recorder interface {
	RecordRound(ctx context.Context, tableID string, state *blackjack.GameState) error
}

// Dealer is responsible for running a single table
// Every call into the game happens on the dealer's run loop
type Dealer struct {
	pitBoss  *PitBoss
	tableID  string
	clients  map[*Client]bool
	lock     sync.RWMutex
	game     *blackjack.Game
	recorder Recorder
	logger   logrus.FieldLogger

	logMessages   []*playable.LogMessage
	recordedRound int

	execInRunLoop chan func()
	close         chan bool
	done          chan struct{}
	closeOnce     sync.Once
	recording     sync.WaitGroup
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, tableID string) (*Dealer, error) {
	logger := pitBoss.logger.WithField("table", tableID)
	game, err := blackjack.NewGame(logger, rng.FromSeed(pitBoss.options.Seed), pitBoss.options.Game)
	if err != nil {
		return nil, err
	}

	d := &Dealer{
		pitBoss:       pitBoss,
		tableID:       tableID,
		clients:       make(map[*Client]bool),
		game:          game,
		recorder:      pitBoss.options.Recorder,
		logger:        logger,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		done:          make(chan struct{}),
	}

	return d, nil
}

// TableID returns the id of the table the dealer runs
func (d *Dealer) TableID() string {
	return d.tableID
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	defer close(d.done)

	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case messages := <-d.game.LogChan():
			d.addLogMessages(messages)
			d.broadcast(&playable.Response{
				Key:  "log",
				Data: messages,
			})
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	client.setDealer(d)
	d.lock.Lock()
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		gs, err := d.game.GetPlayerState(client.id)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
		if log := d.recentLogMessages(); log != nil {
			client.Send(&playable.Response{
				Key:  "log",
				Data: log,
			})
		}
	}
}

// RemoveClient removes a client and marks its seat as disconnected
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		d.game.MarkDisconnected(client.id)
		d.advance()
		d.sendGameData()

		if nClients == 0 && d.game.SeatedCount() == 0 {
			d.pitBoss.dealerIdle(d)
		}
	}

	return nClients == 0
}

// EndShift is called when the dealer is no longer needed
// It returns once the run loop has stopped and pending round records are written
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})

	<-d.done
	d.recording.Wait()
}

// PublicState returns the state of the table as an observer sees it
func (d *Dealer) PublicState(ctx context.Context) (*blackjack.PublicState, error) {
	result := make(chan *blackjack.PublicState, 1)

	select {
	case d.execInRunLoop <- func() { result <- d.game.PublicState() }:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case ps := <-result:
		return ps, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		response, updateState, err := d.game.Action(c.id, msg)
		if err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"client": c.String(),
				"action": msg.Action,
			}).Info("could not perform action")
			c.Send(playable.ErrorResponse(msg.Context, err))
			return
		}

		if response != nil {
			response.Context = msg.Context
			c.Send(response)
		}

		if updateState {
			d.advance()
			d.sendGameData()
		}
	}
}

// advance moves the table forward once every seated player has decided
// Note: this must only be called from within the run loop
func (d *Dealer) advance() {
	d.recordRound()

	if d.game.SeatedCount() == 0 {
		return
	}

	switch d.game.Phase() {
	case blackjack.PhaseBet:
		d.game.StartPlay()
	case blackjack.PhaseSettle:
		if !d.game.AllBetsQueued() {
			return
		}

		if err := d.game.PrepareNextRound(); err != nil {
			d.logger.WithError(err).Error("could not prepare the next round")
			return
		}

		d.game.StartPlay()
	}

	d.recordRound()
}

// recordRound hands a newly settled round to the recorder
// Note: this must only be called from within the run loop
func (d *Dealer) recordRound() {
	if d.recorder == nil || d.game.Phase() != blackjack.PhaseSettle || d.game.Round() == d.recordedRound {
		return
	}

	state := d.game.State()
	d.recordedRound = state.Round
	if len(state.Results) == 0 {
		return
	}

	d.recording.Add(1)
	go func() {
		defer d.recording.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := d.recorder.RecordRound(ctx, d.tableID, state); err != nil {
			d.logger.WithError(err).WithField("round", state.Round).Error("could not record round")
		}
	}()
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.id)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(msg interface{}) {
	for _, client := range d.Clients() {
		client.Send(msg)
	}
}

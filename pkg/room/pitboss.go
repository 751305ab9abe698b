package room

import (
	"context"
	"errors"
	"sort"

	"blackjack-server/pkg/playable/blackjack"

	"github.com/sirupsen/logrus"
)

// ErrTableNotFound is returned when no dealer is running the table
var ErrTableNotFound = errors.New("table not found")

// Options configures every table the pit boss opens
type Options struct {
	Game blackjack.Options

	// Seed of zero shuffles with crypto/rand
	Seed int64

	// Recorder is optional
	Recorder Recorder

	// DefaultTable is opened with the shift and stays open when empty
	DefaultTable string
}

// PitBoss is responsible for dispatching clients to tables
type PitBoss struct {
	dealers       map[string]*Dealer
	options       Options
	logger        logrus.FieldLogger
	connect       chan *Client
	disconnect    chan *Client
	idle          chan *Dealer
	execInRunLoop chan func()
	close         chan bool
	done          chan struct{}
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(logger logrus.FieldLogger, opts Options) (*PitBoss, error) {
	if err := opts.Game.Validate(); err != nil {
		return nil, err
	}

	return &PitBoss{
		dealers:       make(map[string]*Dealer),
		options:       opts,
		logger:        logger,
		connect:       make(chan *Client, 256),
		disconnect:    make(chan *Client, 256),
		idle:          make(chan *Dealer, 256),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		done:          make(chan struct{}),
	}, nil
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() error {
	if p.options.DefaultTable != "" {
		if _, err := p.openTable(p.options.DefaultTable); err != nil {
			return err
		}
	}

	go p.runLoop()
	return nil
}

// EndShift stops the run loop and every table
// Tables are not persisted, so everything seated is lost
func (p *PitBoss) EndShift() {
	close(p.close)
	<-p.done

	for id, dealer := range p.dealers {
		dealer.EndShift()
		delete(p.dealers, id)
	}
}

func (p *PitBoss) runLoop() {
	defer close(p.done)

	for {
		select {
		case client := <-p.connect:
			p.logger.WithField("client", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.tableID]
			if !found {
				var err error
				dealer, err = p.openTable(client.tableID)
				if err != nil {
					p.logger.WithError(err).WithField("table", client.tableID).Error("could not open table")
					client.Close <- "could not open table"
					continue
				}
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			p.logger.WithField("client", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.tableID]
			if !found || client.getDealer() != dealer {
				p.logger.WithField("table", client.tableID).WithField("type", "exception").Error("table not found")
				continue
			}

			dealer.RemoveClient(client)
		case dealer := <-p.idle:
			if p.dealers[dealer.tableID] != dealer || dealer.tableID == p.options.DefaultTable {
				continue
			}

			// someone may have connected after the dealer reported
			if len(dealer.Clients()) > 0 {
				continue
			}

			p.logger.WithField("table", dealer.tableID).Info("closing empty table")
			delete(p.dealers, dealer.tableID)
			go dealer.EndShift()
		case fn := <-p.execInRunLoop:
			fn()
		case <-p.close:
			return
		}
	}
}

func (p *PitBoss) openTable(tableID string) (*Dealer, error) {
	dealer, err := NewDealer(p, tableID)
	if err != nil {
		return nil, err
	}

	dealer.StartShift()
	p.dealers[tableID] = dealer
	p.logger.WithField("table", tableID).Info("opened table")

	return dealer, nil
}

// dealerIdle is called by a dealer once nobody is connected or seated
func (p *PitBoss) dealerIdle(d *Dealer) {
	select {
	case p.idle <- d:
	default:
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// Dealer returns the dealer running the table
func (p *PitBoss) Dealer(ctx context.Context, tableID string) (*Dealer, error) {
	result := make(chan *Dealer, 1)

	select {
	case p.execInRunLoop <- func() { result <- p.dealers[tableID] }:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case dealer := <-result:
		if dealer == nil {
			return nil, ErrTableNotFound
		}

		return dealer, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tables returns the ids of the open tables, sorted
func (p *PitBoss) Tables(ctx context.Context) ([]string, error) {
	result := make(chan []string, 1)
	fn := func() {
		ids := make([]string, 0, len(p.dealers))
		for id := range p.dealers {
			ids = append(ids, id)
		}

		sort.Strings(ids)
		result <- ids
	}

	select {
	case p.execInRunLoop <- fn:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case ids := <-result:
		return ids, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PublicState returns the observable state of the table
func (p *PitBoss) PublicState(ctx context.Context, tableID string) (*blackjack.PublicState, error) {
	dealer, err := p.Dealer(ctx, tableID)
	if err != nil {
		return nil, err
	}

	return dealer.PublicState(ctx)
}

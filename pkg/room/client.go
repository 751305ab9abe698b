package room

import (
	"fmt"
	"sync"

	"blackjack-server/pkg/playable"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer     *Dealer
	dealerLock sync.RWMutex

	// id identifies the connection to the game, a player keeps their seat across connections
	id      string
	tableID string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, tableID string) *Client {
	return &Client{
		send:    make(chan interface{}, 256),
		Close:   make(chan string, 1),
		Conn:    conn,
		id:      uuid.New().String(),
		tableID: tableID,
	}
}

// ID returns the connection ID
func (c *Client) ID() string {
	return c.id
}

// TableID returns the table the client is watching
func (c *Client) TableID() string {
	return c.tableID
}

// Send send a message to the web client
// A client that can't keep up loses the message
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the connection and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.id, c.tableID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	dealer := c.getDealer()
	if dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	dealer.ReceivedMessage(c, msg)
}

func (c *Client) getDealer() *Dealer {
	c.dealerLock.RLock()
	defer c.dealerLock.RUnlock()

	return c.dealer
}

func (c *Client) setDealer(d *Dealer) {
	c.dealerLock.Lock()
	c.dealer = d
	c.dealerLock.Unlock()
}

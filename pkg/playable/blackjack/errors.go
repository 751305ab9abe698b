package blackjack

import "errors"

// ErrInvalidSeat is returned when a seat index is outside of the table
var ErrInvalidSeat = errors.New("invalid seat")

// ErrSeatEmpty is returned when an action targets an unoccupied seat
var ErrSeatEmpty = errors.New("seat is empty")

// ErrNotSeated is returned when a connection does not own a seat
var ErrNotSeated = errors.New("you are not seated")

// ErrAlreadySeated is returned when a connection tries to take a second seat
var ErrAlreadySeated = errors.New("you are already seated")

// ErrTableFull is returned when there are no empty seats
var ErrTableFull = errors.New("table full")

// ErrNameAndBalanceRequired is returned when a new player joins without a name and balance
var ErrNameAndBalanceRequired = errors.New("name and balance required")

// ErrInvalidAmount is returned for negative bets and non-positive buy-ins
var ErrInvalidAmount = errors.New("invalid amount")

// ErrBalanceLimit is returned when a buy-in would take the balance past MaxBalance
var ErrBalanceLimit = errors.New("balance limit exceeded")

// ErrInsufficientBalance is returned when the balance does not cover the wager
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrBettingClosed is returned when a bet is placed while hands are being played
var ErrBettingClosed = errors.New("betting is closed")

// ErrBetAlreadyQueued is returned when a seat already queued a bet for the next round
var ErrBetAlreadyQueued = errors.New("bet already queued")

// ErrNotYourTurn is returned when a seat acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrCannotDouble is returned when doubling anything but a two-card hand
var ErrCannotDouble = errors.New("cannot double after hitting")

// ErrCannotSplit is returned when the hand is not a pair
var ErrCannotSplit = errors.New("cannot split")

// ErrRoundInProgress is returned when the next round is prepared before settlement
var ErrRoundInProgress = errors.New("round is still in progress")

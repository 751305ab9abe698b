package playable

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"blackjack-server/pkg/deck"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLogMessage(t *testing.T) {
	before := time.Now()
	lm := SimpleLogMessage("", "test %d", 5)
	assert.Equal(t, "test 5", lm.Message)
	assert.Nil(t, lm.Names)
	assert.False(t, lm.Time.Before(before))
	assert.NotEmpty(t, lm.UUID)
	assert.Nil(t, lm.Cards)
}

func TestSimpleLogMessage_withName(t *testing.T) {
	lm := SimpleLogMessage("Alice", "test %d", 4)
	assert.Equal(t, "test 4", lm.Message)
	assert.Equal(t, []string{"Alice"}, lm.Names)
}

func TestCardLogMessageSlice(t *testing.T) {
	cards := deck.CardsFromString("As,10h")
	lms := CardLogMessageSlice("Alice", cards, "{} drew %d cards", 2)
	assert.Equal(t, 1, len(lms))
	assert.Equal(t, "{} drew 2 cards", lms[0].Message)
	assert.Equal(t, []string{"Alice"}, lms[0].Names)
	assert.Equal(t, cards, lms[0].Cards)
}

func TestSimpleLogMessageSlice(t *testing.T) {
	lms := SimpleLogMessageSlice("", "test %d", 38)
	assert.Equal(t, 1, len(lms))
	assert.Equal(t, "test 38", lms[0].Message)
}

func TestOK(t *testing.T) {
	assert.Equal(t, &Response{Key: "status", Value: "OK"}, OK())
	assert.Equal(t, &Response{Key: "status", Value: "OK", Context: "ctx"}, OK("ctx"))
}

func TestErrorResponse(t *testing.T) {
	assert.Equal(t, &Response{Key: "error", Value: "boom", Context: "ctx"}, ErrorResponse("ctx", errors.New("boom")))
}

func TestAdditionalData(t *testing.T) {
	a := assert.New(t)

	var data AdditionalData
	a.NoError(json.Unmarshal([]byte(`{"amount":25,"name":"Alice","in":true}`), &data))

	amount, ok := data.GetInt("amount")
	a.True(ok)
	a.Equal(25, amount)

	name, ok := data.GetString("name")
	a.True(ok)
	a.Equal("Alice", name)

	_, ok = data.GetInt("name")
	a.False(ok)

	_, ok = data.GetString("missing")
	a.False(ok)

	_, ok = AdditionalData{"amount": 10.9}.GetInt("amount")
	a.False(ok)

	_, ok = AdditionalData{"amount": 1e300}.GetInt("amount")
	a.False(ok)

	_, ok = AdditionalData{"amount": float64(math.MaxInt32) + 1}.GetInt("amount")
	a.False(ok)

	amount, ok = AdditionalData{"amount": -5.0}.GetInt("amount")
	a.True(ok)
	a.Equal(-5, amount)

	amount, ok = AdditionalData{"amount": 7}.GetInt("amount")
	a.True(ok)
	a.Equal(7, amount)
}

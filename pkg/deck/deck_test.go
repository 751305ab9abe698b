package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// noSwap always picks the current index, leaving the deck in generation order
type noSwap struct{}

func (noSwap) Intn(n int) int {
	return n - 1
}

func TestNew(t *testing.T) {
	d := New(noSwap{})

	assert.Equal(t, 52, d.CardsLeft())
	assert.Equal(t, "As", CardToString(d.Cards[0]))
	assert.Equal(t, "Ks", CardToString(d.Cards[12]))
	assert.Equal(t, "Ah", CardToString(d.Cards[13]))
	assert.Equal(t, "Kc", CardToString(d.Cards[51]))
}

func TestDeck_Shuffle(t *testing.T) {
	d := New(rand.New(rand.NewSource(1))) // nolint:gosec
	ordered := New(noSwap{})
	assert.NotEqual(t, CardsToString(ordered.Cards), CardsToString(d.Cards))

	seen := make(map[string]bool)
	for _, c := range d.Cards {
		seen[c.String()] = true
	}

	assert.Equal(t, 52, len(seen))

	// shuffling rebuilds a full deck
	_, _ = d.Draw()
	d.Shuffle()
	assert.Equal(t, 52, d.CardsLeft())
}

func TestDeck_Shuffle_Uniform(t *testing.T) {
	r := rand.New(rand.NewSource(42)) // nolint:gosec
	d := New(r)

	const trials = 5200
	positions := make([]int, 52)
	for i := 0; i < trials; i++ {
		d.Shuffle()
		for pos, c := range d.Cards {
			if c.Rank == Ace && c.Suit == Spades {
				positions[pos]++
				break
			}
		}
	}

	// expected 100 per position
	for pos, count := range positions {
		assert.True(t, count > 40 && count < 180, "position %d seen %d times", pos, count)
	}
}

func TestDeck_Draw(t *testing.T) {
	d := New(nil)

	if !d.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if d.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := d.Draw()
		assert.NotNil(t, card)
		assert.NoError(t, err)
	}

	assert.False(t, d.CanDraw(1))

	card, err := d.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestDeck_Stack(t *testing.T) {
	d := New(noSwap{})
	d.Stack(CardsFromString("2c,3c"))

	assert.Equal(t, 54, d.CardsLeft())
	c, _ := d.Draw()
	assert.Equal(t, "2c", CardToString(c))
	c, _ = d.Draw()
	assert.Equal(t, "3c", CardToString(c))
	c, _ = d.Draw()
	assert.Equal(t, "As", CardToString(c))
}

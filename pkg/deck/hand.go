package deck

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// Value returns the blackjack value of the hand
// Aces count as 11 and drop to 1, one at a time, while the hand is over 21
func (h Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h {
		total += c.Weight
		if c.IsAce() {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}

	return total
}

// IsBlackjack returns true for a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust returns true if the hand is over 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}

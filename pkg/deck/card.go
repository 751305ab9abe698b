package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits is the generation order of the suits
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// rank labels
const (
	Ace   = "A"
	Jack  = "J"
	Queen = "Q"
	King  = "K"
)

// Ranks is the generation order of the rank labels
var Ranks = []string{Ace, "2", "3", "4", "5", "6", "7", "8", "9", "10", Jack, Queen, King}

// Card is an individual playing card
// Weight is precomputed from the rank when the card is created
type Card struct {
	Suit   Suit   `json:"suit"`
	Rank   string `json:"rank"`
	Weight int    `json:"weight"`
}

// NewCard returns a card with its blackjack weight set
func NewCard(rank string, suit Suit) *Card {
	return &Card{
		Suit:   suit,
		Rank:   rank,
		Weight: weightOf(rank),
	}
}

func weightOf(rank string) int {
	switch rank {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	}

	n, err := strconv.Atoi(rank)
	if err != nil || n < 2 || n > 10 {
		panic(fmt.Sprintf("invalid rank: %s", rank))
	}

	return n
}

// IsAce returns true if the card is an ace
func (c *Card) IsAce() bool {
	return c.Rank == Ace
}

func (c *Card) String() string {
	return c.Rank + string(c.Suit)
}

var cardRx = regexp.MustCompile(`(?i)^(a|[2-9]|10|j|q|k)([cdhs])\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is one of A,2-10,J,Q,K and suit in [cdhs]
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	default:
		// should never be hit due to the regexp
		panic("unknown suit")
	}

	return NewCard(strings.ToUpper(match[1]), suit)
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (Ac)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	var suit string
	switch card.Suit {
	case Clubs:
		suit = "c"
	case Hearts:
		suit = "h"
	case Diamonds:
		suit = "d"
	case Spades:
		suit = "s"
	}

	return card.Rank + suit
}

// CardsToString will convert a slice of cards to a string in the format of 2c,3h,4s,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}

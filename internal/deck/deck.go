package deck

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// Deck is a server-private sequence of remaining cards. Never serialize a
// Deck outward — the game engine only ever hands out the cards it deals.
type Deck struct {
	cards []Card
	rng   *mathrand.Rand
}

// New builds a fresh, shuffled 52-card deck seeded from a CSPRNG. Every
// dealt hand gets its own Deck so no two hands share shuffle state.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, 52), rng: cryptoSeededRand()}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	d.shuffle()
	return d
}

// NewStacked builds an unshuffled deck that deals the given cards in
// order. For tests that need known hole cards and board runouts.
func NewStacked(cards ...Card) *Deck {
	return &Deck{cards: append([]Card{}, cards...)}
}

// cryptoSeededRand returns a math/rand/v2 source seeded from crypto/rand so
// the per-hand shuffle is unpredictable even to an observer who knows the
// process start time, and never logs or otherwise leaks its seed.
func cryptoSeededRand() *mathrand.Rand {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic("deck: failed to read crypto/rand seed: " + err.Error())
	}
	s1 := binary.LittleEndian.Uint64(seed[0:8])
	s2 := binary.LittleEndian.Uint64(seed[8:16])
	return mathrand.New(mathrand.NewPCG(s1, s2))
}

// shuffle performs a Fisher-Yates shuffle over the full deck.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card of the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Burn discards the top card with no game effect, mirroring the burn card
// of live play. Documented for parity only; the burned card is not returned.
func (d *Deck) Burn() {
	d.Draw()
}

// Remaining returns the count of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Package game implements the per-room Texas Hold'em table state machine.
//
// A Table owns the seats, deck, community cards and pot of one room and
// moves through the session states waiting → playing → finished →
// playing. Within a hand the phase advances strictly
// preflop → flop → turn → river → showdown.
//
// # Basic Usage
//
//	t := game.NewTable("R1", game.Settings{SmallBlind: 10, BigBlind: 20, MaxSeats: 9}, rng)
//	t.Seat("conn-a", "Alice", 1000)
//	t.Seat("conn-b", "Bob", 1000)
//	_ = t.StartNewHand()
//	res, err := t.Apply("conn-b", game.Decision{Action: game.Call})
//
// Table is not safe for concurrent use; the owning room serialises every
// call behind its own lock.
//
// # Showdown
//
// There is no hand evaluation. At showdown the whole pot goes to the first
// non-folded player in seat order.
//
// # Deterministic Testing
//
// Inject a seeded generator from randutil.New, or stack the deck with
// WithDeckSource:
//
//	t := game.NewTable("R1", settings, randutil.New(42),
//	    game.WithDeckSource(func() *deck.Deck { return deck.FromCards(cards...) }))
package game

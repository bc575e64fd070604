// Package matching implements the side-parameterised price-time-priority
// matching algorithm and the one-shot dispatch built on top of it,
// grounded on the reference engine's single-threaded-per-symbol design but
// rewritten around the two-tree orderbook.Book rather than its sharded
// price tree.
package matching

import (
	"matchengine/domain"
	"matchengine/orderbook"
)

// Matcher runs the matching algorithm for one Book. It holds no state of
// its own between calls; every field it touches lives on the book or on
// the order passed in.
type Matcher struct {
	book *orderbook.Book
}

// NewMatcher returns a Matcher over book.
func NewMatcher(book *orderbook.Book) *Matcher {
	return &Matcher{book: book}
}

// admissible reports whether active (on side) may still cross the resting
// order top on the opposite side, given their prices.
func admissible(activeSide domain.Side, activePrice, topPrice uint64) bool {
	if activeSide == domain.Buy {
		return activePrice >= topPrice
	}
	return activePrice <= topPrice
}

// Run matches active against the opposite side of the book, draining
// crossable resting liquidity and appending one Trade per distinct resting
// order hit into *trades (trades must be empty on entry - see
// domain.GetTradeBuffer); an iceberg renewed during the call keeps
// accumulating into the Trade its earlier instance started. It mutates
// active.Size/active.Full/active.Peak in place, keeping Peak no larger than
// Full on both sides, and renews or removes resting orders as they are
// consumed. It never inserts
// active itself; that is the caller's job (see Engine.Submit).
func (m *Matcher) Run(active *domain.Order, trades *[]domain.Trade) {
	opp := active.Side.Opposite()
	touched := 0

	for active.Size > 0 {
		top := m.book.Top(opp)
		if top == nil {
			break
		}
		if !admissible(active.Side, active.Price, top.Price) {
			break
		}

		q := active.Size
		if top.Size < q {
			q = top.Size
		}

		if top.Match == domain.Unmatched {
			idx := len(*trades)
			buyID, sellID := active.ID, top.ID
			if active.Side == domain.Sell {
				buyID, sellID = top.ID, active.ID
			}
			*trades = append(*trades, domain.Trade{
				BuyID:  buyID,
				SellID: sellID,
				Price:  top.Price,
			})
			top.Match = idx
			touched++
		}
		(*trades)[top.Match].Size += q

		active.Full -= q
		if active.Full < active.Peak {
			active.Size = active.Full
			active.Peak = active.Full
		} else {
			active.Size = active.Peak
		}

		top.Size -= q
		top.Full -= q
		if top.Peak > top.Full {
			top.Peak = top.Full
		}

		if top.Size == 0 {
			if top.Full > 0 {
				if _, err := m.book.Renew(top); err != nil {
					// The id we just looked up as top-of-book cannot
					// simultaneously be unknown to Remove; a mismatch here
					// is a programming error, not a per-input fault.
					panic(err)
				}
			} else {
				if err := m.book.Remove(top.ID); err != nil {
					panic(err)
				}
				touched--
			}
		}
	}

	m.finalize(opp, touched)
}

// finalize clears the Match scratch slot on every resting order this call
// touched, restoring the Unmatched sentinel before the next call. touched
// only bounds this scan so it stops as soon as every hit order has been
// cleared, rather than walking the whole side - it never gates Run's
// matching loop itself, which stops only on active.Size reaching 0 or the
// opposite side running out of admissible resting liquidity.
func (m *Matcher) finalize(side domain.Side, touched int) {
	if touched <= 0 {
		return
	}
	remaining := touched
	m.book.Iterate(side, func(o *domain.Order) {
		if remaining == 0 {
			return
		}
		if o.Match != domain.Unmatched {
			o.Match = domain.Unmatched
			remaining--
		}
	})
}

// Engine dispatches submissions and cancels against one book, running the
// matcher and - for orders that rest - inserting the residual.
type Engine struct {
	book    *orderbook.Book
	matcher *Matcher
}

// NewEngine returns an Engine over a fresh, empty book.
func NewEngine() *Engine {
	book := orderbook.New()
	return &Engine{book: book, matcher: NewMatcher(book)}
}

// Book exposes the underlying book for reporting (see driver.Runner).
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Submit matches a copy of o against the book and, if the order rests (Add
// is true and residual Full remains), inserts the copy's residual; o itself
// is not modified. It returns the trades produced by this call. If the
// residual insert fails with
// ErrDuplicateOrderID, liquidity already consumed from the opposite side in
// this same call is not rolled back - see the grounded note on this in
// SPEC_FULL.md's Engine section.
func (e *Engine) Submit(o *domain.Order) ([]domain.Trade, error) {
	buf := domain.GetTradeBuffer()
	defer domain.PutTradeBuffer(buf)

	active := new(domain.Order)
	*active = *o
	e.matcher.Run(active, buf)

	if active.Add && active.Full > 0 {
		if err := e.book.Insert(active); err != nil {
			return nil, err
		}
	}

	trades := make([]domain.Trade, len(*buf))
	copy(trades, *buf)
	return trades, nil
}

// Cancel removes id from the book, or fails with ErrUnknownOrderID.
func (e *Engine) Cancel(id uint64) error {
	return e.book.Remove(id)
}

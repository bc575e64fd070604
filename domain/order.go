package domain

import "sync"

// Side is which book an order and its resting liquidity belong to.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "B"
	}
	return "S"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

const (
	// MaxPrice is the sentinel price a Buy market order is assigned so it
	// crosses against any resting Sell.
	MaxPrice uint64 = ^uint64(0)
	// MinPrice is the sentinel price a Sell market order is assigned so it
	// crosses against any resting Buy.
	MinPrice uint64 = 0
)

// Unmatched is the scratch-slot sentinel meaning "not yet referenced by a
// trade in the current matcher call". Orders carry this between calls; the
// matcher clears it back to Unmatched before returning (see Matcher).
const Unmatched = -1

// Order is a resting or in-flight book entry. The book owns every instance
// once Insert has assigned it a serial; the matcher mutates
// Size/Full/Peak/Match in place while an instance is the aggressor or is being hit as resting
// liquidity.
type Order struct {
	ID     uint64
	Side   Side
	Price  uint64
	Size   uint64 // currently displayed quantity available for matching
	Full   uint64 // remaining total quantity, visible + hidden
	Peak   uint64 // max visible slice; equals Full for non-icebergs
	Add    bool   // whether residual quantity should rest after matching
	Serial uint64 // assigned by the book on insertion; zero until then

	// Match indexes into the current matcher call's trade buffer, or
	// Unmatched. Meaningless outside of a single Matcher.Run call.
	Match int
}

var orderPool sync.Pool

func init() {
	orderPool.New = func() any {
		return &Order{}
	}
}

func newOrder(side Side, id, price, full, peak uint64, add bool) *Order {
	o := orderPool.Get().(*Order)
	o.ID = id
	o.Side = side
	o.Price = price
	o.Full = full
	o.Peak = peak
	if peak < full {
		o.Size = peak
	} else {
		o.Size = full
	}
	o.Add = add
	o.Serial = 0
	o.Match = Unmatched
	return o
}

// Limit builds a day limit order: rests in full if it doesn't trade away.
func Limit(side Side, id, price, size uint64) *Order {
	return newOrder(side, id, price, size, size, true)
}

// Iceberg builds an order that only ever displays up to peak of its full
// remaining quantity, renewing the display as it is consumed.
func Iceberg(side Side, id, price, full, peak uint64) *Order {
	return newOrder(side, id, price, full, peak, true)
}

// Aggress builds an immediate-or-cancel order: whatever doesn't match away
// immediately is discarded rather than rested.
func Aggress(side Side, id, price, size uint64) *Order {
	return newOrder(side, id, price, size, size, false)
}

// Market builds an order that crosses at any price and never rests. The
// limit price is pinned to the side's extreme so ordinary comparisons admit
// every counterparty price.
func Market(side Side, id, size uint64) *Order {
	price := MaxPrice
	if side == Sell {
		price = MinPrice
	}
	return newOrder(side, id, price, size, size, false)
}

// Renewed returns a fresh instance carrying the iceberg's remaining
// quantity into a new peak slice, ready for re-insertion with a later
// serial. The caller is responsible for removing the prior instance from
// the book and inserting this one.
func (o *Order) Renewed() *Order {
	n := newOrder(o.Side, o.ID, o.Price, o.Full, o.Peak, o.Add)
	n.Match = o.Match
	return n
}

// Release returns the order to the allocation pool. Callers must not touch
// o afterward. Only the book calls this, once an order is no longer
// resting and no outstanding reference to it can exist.
func (o *Order) Release() {
	*o = Order{}
	orderPool.Put(o)
}

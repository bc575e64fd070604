// Package orderbook holds the resting-order state for one instrument: two
// price-time-priority ordered sides plus an id index for O(log n) cancel
// and iceberg renewal, grounded on the reference engine's sharded
// red-black-tree book but simplified to the two flat trees the matching
// algorithm actually needs.
package orderbook

import (
	"errors"
	"fmt"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"matchengine/domain"
)

// ErrDuplicateOrderID is returned by Insert when id already rests in the
// book on either side.
var ErrDuplicateOrderID = errors.New("orderbook: duplicate order id")

// ErrUnknownOrderID is returned by Remove when id does not rest in the
// book.
var ErrUnknownOrderID = errors.New("orderbook: unknown order id")

// location records which side tree an id's order lives in, so Remove and
// iceberg renewal never need to scan.
type location struct {
	side     domain.Side
	priority Priority
}

// Book is one instrument's two-sided resting order state. The zero value
// is not usable; construct with New.
type Book struct {
	buys  *rbt.Tree[Priority, *domain.Order]
	sells *rbt.Tree[Priority, *domain.Order]
	ids   map[uint64]location
	next  uint64 // next serial to assign
}

// New returns an empty book.
func New() *Book {
	return &Book{
		buys:  rbt.NewWith[Priority, *domain.Order](buyLess),
		sells: rbt.NewWith[Priority, *domain.Order](sellLess),
		ids:   make(map[uint64]location),
	}
}

func (b *Book) tree(side domain.Side) *rbt.Tree[Priority, *domain.Order] {
	if side == domain.Buy {
		return b.buys
	}
	return b.sells
}

// Insert assigns the next serial, places o in its side's tree, and records
// it in the id index. It fails without mutating the book if o.ID already
// rests on either side.
func (b *Book) Insert(o *domain.Order) error {
	if _, exists := b.ids[o.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateOrderID, o.ID)
	}
	b.next++
	o.Serial = b.next
	p := Priority{Price: o.Price, Serial: o.Serial}
	b.tree(o.Side).Put(p, o)
	b.ids[o.ID] = location{side: o.Side, priority: p}
	return nil
}

// Remove erases id from the book and releases its order back to the
// allocation pool. It fails, leaving the book unchanged, if id is not
// resting.
func (b *Book) Remove(id uint64) error {
	loc, exists := b.ids[id]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownOrderID, id)
	}
	t := b.tree(loc.side)
	order, _ := t.Get(loc.priority)
	t.Remove(loc.priority)
	delete(b.ids, id)
	if order != nil {
		order.Release()
	}
	return nil
}

// Top returns the highest-priority resting order on side, or nil if that
// side is empty.
func (b *Book) Top(side domain.Side) *domain.Order {
	node := b.tree(side).Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// Len reports how many orders rest on side.
func (b *Book) Len(side domain.Side) int {
	return b.tree(side).Size()
}

// Has reports whether id currently rests in the book.
func (b *Book) Has(id uint64) bool {
	_, exists := b.ids[id]
	return exists
}

// Renew replaces the resting instance at o's current location with a fresh
// instance carrying the same id and remaining quantity but a new, later
// serial - demoting it to the back of its price level. It returns the new
// instance, which is what callers must continue to operate on. o must
// currently be resting (typically the just-returned value of Top).
func (b *Book) Renew(o *domain.Order) (*domain.Order, error) {
	renewed := o.Renewed()
	if err := b.Remove(o.ID); err != nil {
		return nil, err
	}
	if err := b.Insert(renewed); err != nil {
		return nil, err
	}
	return renewed, nil
}

// Iterate walks side in price-time priority order, calling fn for each
// resting order. fn must not mutate the book.
func (b *Book) Iterate(side domain.Side, fn func(*domain.Order)) {
	it := b.tree(side).Iterator()
	for it.Next() {
		fn(it.Value())
	}
}

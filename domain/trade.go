package domain

import "sync"

// Trade is one execution between a resting order and an aggressor, priced
// at the resting order's price. Repeated fills against the same resting
// order instance within a single matcher call coalesce into one Trade with
// an accumulating Size (see Order.Match).
type Trade struct {
	BuyID  uint64
	SellID uint64
	Price  uint64
	Size   uint64
}

var tradeSlicePool = sync.Pool{
	New: func() any {
		s := make([]Trade, 0, 16)
		return &s
	},
}

// GetTradeBuffer returns a zero-length, pooled []Trade ready to be appended
// to for one Matcher.Run call.
func GetTradeBuffer() *[]Trade {
	buf := tradeSlicePool.Get().(*[]Trade)
	*buf = (*buf)[:0]
	return buf
}

// PutTradeBuffer returns a trade buffer obtained from GetTradeBuffer. The
// caller must have finished reading its contents.
func PutTradeBuffer(buf *[]Trade) {
	tradeSlicePool.Put(buf)
}

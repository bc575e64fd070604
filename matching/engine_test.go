package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"matchengine/domain"
	"matchengine/orderbook"
)

func TestTrivialRest(t *testing.T) {
	e := NewEngine()
	trades, err := e.Submit(domain.Limit(domain.Buy, 1, 1020, 100))
	must(t, err)
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %v", trades)
	}
	top := e.Book().Top(domain.Buy)
	if top == nil || top.Price != 1020 || top.Size != 100 {
		t.Fatalf("expected resting O B 1 1020 100, got %+v", top)
	}
}

func TestSimpleCross(t *testing.T) {
	e := NewEngine()
	must2(t, e.Submit(domain.Limit(domain.Buy, 1, 1020, 100)))

	trades, err := e.Submit(domain.Limit(domain.Sell, 2, 1010, 60))
	must(t, err)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.BuyID != 1 || tr.SellID != 2 || tr.Price != 1020 || tr.Size != 60 {
		t.Fatalf("unexpected trade: %+v", tr)
	}

	top := e.Book().Top(domain.Buy)
	if top.Size != 40 {
		t.Fatalf("expected residual buy size 40, got %d", top.Size)
	}
}

func TestPriceTimePriorityWithPartial(t *testing.T) {
	require := require.New(t)
	e := NewEngine()
	must2(t, e.Submit(domain.Limit(domain.Buy, 1, 1010, 200)))
	must2(t, e.Submit(domain.Limit(domain.Buy, 2, 1010, 200)))
	must2(t, e.Submit(domain.Limit(domain.Buy, 3, 1030, 200)))
	must2(t, e.Submit(domain.Limit(domain.Buy, 4, 1010, 200)))
	must2(t, e.Submit(domain.Limit(domain.Buy, 5, 1000, 200)))

	trades, err := e.Submit(domain.Limit(domain.Sell, 7, 1010, 450))
	require.NoError(err)

	want := []domain.Trade{
		{BuyID: 3, SellID: 7, Price: 1030, Size: 200},
		{BuyID: 1, SellID: 7, Price: 1010, Size: 200},
		{BuyID: 2, SellID: 7, Price: 1010, Size: 50},
	}
	require.Equal(want, trades)

	var ids []uint64
	var sizes []uint64
	e.Book().Iterate(domain.Buy, func(o *domain.Order) {
		ids = append(ids, o.ID)
		sizes = append(sizes, o.Size)
	})
	require.Equal([]uint64{2, 4, 5}, ids, "resting buy order priority after the cross")
	require.Equal([]uint64{150, 200, 200}, sizes, "resting buy order sizes after the cross")
}

func TestIcebergRefreshDropsPriority(t *testing.T) {
	require := require.New(t)
	e := NewEngine()
	must2(t, e.Submit(domain.Iceberg(domain.Buy, 1, 100, 100_000, 10_000)))

	trades, err := e.Submit(domain.Limit(domain.Sell, 2, 100, 10_000))
	require.NoError(err)
	require.Equal([]domain.Trade{{BuyID: 1, SellID: 2, Price: 100, Size: 10_000}}, trades)

	top := e.Book().Top(domain.Buy)
	require.Equal(uint64(1), top.ID)
	require.Equal(uint64(10_000), top.Size)
	require.Equal(uint64(90_000), top.Full, "order 1 renewed to 10000/90000")

	must2(t, e.Submit(domain.Iceberg(domain.Buy, 3, 100, 50_000, 20_000)))

	trades, err = e.Submit(domain.Limit(domain.Sell, 4, 100, 35_000))
	require.NoError(err)
	require.Equal([]domain.Trade{
		{BuyID: 1, SellID: 4, Price: 100, Size: 15_000},
		{BuyID: 3, SellID: 4, Price: 100, Size: 20_000},
	}, trades)

	var ids []uint64
	var sizes []uint64
	e.Book().Iterate(domain.Buy, func(o *domain.Order) {
		ids = append(ids, o.ID)
		sizes = append(sizes, o.Size)
	})
	require.Equal([]uint64{1, 3}, ids, "order 1 renewed earlier this call so holds a lower serial than order 3")
	require.Equal([]uint64{5_000, 20_000}, sizes)

	trades, err = e.Submit(domain.Limit(domain.Sell, 5, 100, 4_000))
	require.NoError(err)
	require.Equal([]domain.Trade{{BuyID: 1, SellID: 5, Price: 100, Size: 4_000}}, trades)

	ids, sizes = nil, nil
	e.Book().Iterate(domain.Buy, func(o *domain.Order) {
		ids = append(ids, o.ID)
		sizes = append(sizes, o.Size)
	})
	require.Equal([]uint64{1, 3}, ids, "a partial hit that doesn't exhaust the current peak must not renew or reorder")
	require.Equal([]uint64{1_000, 20_000}, sizes)
}

func TestCancelUnknownID(t *testing.T) {
	e := NewEngine()
	err := e.Cancel(99)
	if !errors.Is(err, orderbook.ErrUnknownOrderID) {
		t.Fatalf("expected ErrUnknownOrderID, got %v", err)
	}
}

func TestMarketOrderEmptiesLiquidityAndDiscardsResidual(t *testing.T) {
	e := NewEngine()
	must2(t, e.Submit(domain.Limit(domain.Sell, 1, 1000, 50)))

	trades, err := e.Submit(domain.Market(domain.Buy, 2, 60))
	must(t, err)
	if len(trades) != 1 || trades[0] != (domain.Trade{BuyID: 2, SellID: 1, Price: 1000, Size: 50}) {
		t.Fatalf("unexpected trades: %+v", trades)
	}
	if e.Book().Len(domain.Sell) != 0 || e.Book().Len(domain.Buy) != 0 {
		t.Fatalf("book should be empty, buy=%d sell=%d", e.Book().Len(domain.Buy), e.Book().Len(domain.Sell))
	}
}

func TestAggressNeverRestsOnNoLiquidity(t *testing.T) {
	e := NewEngine()
	trades, err := e.Submit(domain.Aggress(domain.Buy, 1, 1000, 10))
	must(t, err)
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %v", trades)
	}
	if e.Book().Len(domain.Buy) != 0 {
		t.Fatal("aggress orders must never rest")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func must2(t *testing.T, _ []domain.Trade, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package codec

import (
	"bytes"
	"testing"

	"matchengine/domain"
)

func TestWriteTradeFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteTrade(domain.Trade{BuyID: 1, SellID: 2, Price: 1020, Size: 60}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "M 1 2 1020 60\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteOrderFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	o := domain.Limit(domain.Buy, 1, 1020, 100)
	if err := w.WriteOrder(o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "O B 1 1020 100\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

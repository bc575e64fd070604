package codec

import (
	"bufio"
	"fmt"
	"io"

	"matchengine/domain"
)

// Writer formats trades and resting orders onto an underlying stream, one
// per line, matching the reference engine's OstreamWriter output exactly.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for buffered line writing. Callers must call Flush
// when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteTrade writes one "M <buyId> <sellId> <price> <size>" line.
func (w *Writer) WriteTrade(t domain.Trade) error {
	_, err := fmt.Fprintf(w.w, "M %d %d %d %d\n", t.BuyID, t.SellID, t.Price, t.Size)
	return err
}

// WriteOrder writes one "O <side> <id> <price> <size>" line. For an
// iceberg, size is its currently displayed slice.
func (w *Writer) WriteOrder(o *domain.Order) error {
	_, err := fmt.Fprintf(w.w, "O %s %d %d %d\n", o.Side, o.ID, o.Price, o.Size)
	return err
}

// Flush pushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

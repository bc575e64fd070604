// Package driver implements the read-process-report loop around one
// matching.Engine: parse a line, dispatch it, print any trades and the
// resulting book snapshot, and apply the per-input error policy -
// grounded directly on the reference engine's Runner::run/Runner::handle,
// including its output-suppression behavior on a per-input fault.
package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"matchengine/codec"
	"matchengine/domain"
	"matchengine/internal/metrics"
	"matchengine/matching"
	"matchengine/orderbook"
)

// Options configures per-input fault handling.
type Options struct {
	// PropagateBadID makes a DuplicateOrderId or UnknownOrderId fault
	// terminate Run instead of the default swallow-and-continue.
	PropagateBadID bool
}

// Runner reads lines from an input stream, dispatches each to an Engine,
// and reports trades plus the resulting book snapshot to an output
// stream, logging per-input faults rather than letting them escape -
// unless configured to propagate bad-id faults.
type Runner struct {
	engine  *matching.Engine
	out     *codec.Writer
	log     *zap.Logger
	metrics *metrics.Registry
	opts    Options
}

// New returns a Runner dispatching against engine, writing output to out,
// logging to log, and recording into reg.
func New(engine *matching.Engine, out io.Writer, log *zap.Logger, reg *metrics.Registry, opts Options) *Runner {
	return &Runner{
		engine:  engine,
		out:     codec.NewWriter(out),
		log:     log,
		metrics: reg,
		opts:    opts,
	}
}

// Run reads in line by line until EOF, dispatching each line and flushing
// output after every input so a consumer tailing stdout observes results
// incrementally. It returns nil on clean EOF, or the propagated error if
// PropagateBadID is set and a bad-id fault occurs.
func (r *Runner) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := r.handleLine(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("driver: reading input: %w", err)
	}
	return nil
}

func (r *Runner) handleLine(line string) error {
	input, err := codec.ParseLine(line)
	if err != nil {
		r.log.Warn("malformed input skipped", zap.String("line", line), zap.Error(err))
		r.metrics.MalformedInputs.Inc()
		return nil
	}
	if input == nil {
		return nil // blank or comment line: true no-op, no output at all
	}

	var trades []domain.Trade
	switch v := input.(type) {
	case *domain.Order:
		trades, err = r.engine.Submit(v)
	case *codec.Cancel:
		err = r.engine.Cancel(v.ID)
	}

	if err != nil {
		r.log.Warn("bad order id", zap.Error(err))
		r.metrics.BadOrderIDs.Inc()
		if r.opts.PropagateBadID {
			return err
		}
		return nil // suppress both trades and snapshot for this input
	}

	r.metrics.InputsProcessed.Inc()
	for _, t := range trades {
		r.metrics.TradesExecuted.Inc()
		r.metrics.TradedSize.Add(float64(t.Size))
		if err := r.out.WriteTrade(t); err != nil {
			return fmt.Errorf("driver: writing trade: %w", err)
		}
	}

	if err := r.writeSnapshot(); err != nil {
		return err
	}
	return r.out.Flush()
}

func (r *Runner) writeSnapshot() error {
	var writeErr error
	write := func(o *domain.Order) {
		if writeErr != nil {
			return
		}
		writeErr = r.out.WriteOrder(o)
	}
	r.engine.Book().Iterate(domain.Buy, write)
	r.engine.Book().Iterate(domain.Sell, write)
	r.metrics.BuyDepth.Set(float64(r.engine.Book().Len(domain.Buy)))
	r.metrics.SellDepth.Set(float64(r.engine.Book().Len(domain.Sell)))
	if writeErr != nil {
		return fmt.Errorf("driver: writing book snapshot: %w", writeErr)
	}
	return nil
}

// IsBadOrderID reports whether err is a duplicate-insert or unknown-cancel
// fault, for callers that need to distinguish it from I/O or malformed
// input errors.
func IsBadOrderID(err error) bool {
	return errors.Is(err, orderbook.ErrDuplicateOrderID) || errors.Is(err, orderbook.ErrUnknownOrderID)
}

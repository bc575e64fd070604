// Package codec parses the line-oriented textual input protocol into
// domain values and formats trades/resting orders back out, grounded on
// the reference engine's streams.hpp (itself just a thin sscanf/ostream
// layer over the same grammar).
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"matchengine/domain"
)

// ErrMalformed is wrapped by every parse failure: unknown leading token,
// wrong field count, unparseable number, unknown side, a zero size (or
// zero iceberg peak), or an iceberg whose peak exceeds its full quantity.
var ErrMalformed = errors.New("codec: malformed input")

// Cancel is the other input variant besides *domain.Order.
type Cancel struct {
	ID uint64
}

// Input is either a *domain.Order, a *Cancel, or nil (a no-op: a blank or
// '#'-prefixed line, which produces no output at all - see ParseLine).
type Input any

// ParseLine parses one line of input. A blank line or one starting with
// '#' is a no-op and returns (nil, nil). Any other malformed line returns
// an error wrapping ErrMalformed; the caller should treat that as a
// per-input fault (skip, diagnose, continue), never fatal.
func ParseLine(line string) (Input, error) {
	if line == "" || line[0] == '#' {
		return nil, nil
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	switch fields[0] {
	case "L":
		return parseOrder(fields, true, false)
	case "I":
		return parseIceberg(fields)
	case "O":
		return parseOrder(fields, false, false)
	case "M":
		return parseOrder(fields, false, true)
	case "C":
		return parseCancel(fields)
	default:
		return nil, fmt.Errorf("%w: unrecognized input type %q", ErrMalformed, fields[0])
	}
}

func parseSide(tok string) (domain.Side, error) {
	switch tok {
	case "B":
		return domain.Buy, nil
	case "S":
		return domain.Sell, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", ErrMalformed, tok)
	}
}

func parseUint(tok string) (uint64, error) {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// parseOrder handles L, O, and M: market orders omit the price field.
func parseOrder(fields []string, rests, market bool) (Input, error) {
	want := 5
	if market {
		want = 4
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, want, len(fields))
	}

	side, err := parseSide(fields[1])
	if err != nil {
		return nil, err
	}
	id, err := parseUint(fields[2])
	if err != nil {
		return nil, err
	}

	if market {
		size, err := parseUint(fields[3])
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return nil, fmt.Errorf("%w: zero size", ErrMalformed)
		}
		return domain.Market(side, id, size), nil
	}

	price, err := parseUint(fields[3])
	if err != nil {
		return nil, err
	}
	size, err := parseUint(fields[4])
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: zero size", ErrMalformed)
	}
	if rests {
		return domain.Limit(side, id, price, size), nil
	}
	return domain.Aggress(side, id, price, size), nil
}

func parseIceberg(fields []string) (Input, error) {
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrMalformed, len(fields))
	}
	side, err := parseSide(fields[1])
	if err != nil {
		return nil, err
	}
	id, err := parseUint(fields[2])
	if err != nil {
		return nil, err
	}
	price, err := parseUint(fields[3])
	if err != nil {
		return nil, err
	}
	full, err := parseUint(fields[4])
	if err != nil {
		return nil, err
	}
	peak, err := parseUint(fields[5])
	if err != nil {
		return nil, err
	}
	if peak > full {
		return nil, fmt.Errorf("%w: iceberg peak %d exceeds full %d", ErrMalformed, peak, full)
	}
	if peak == 0 {
		return nil, fmt.Errorf("%w: zero iceberg peak", ErrMalformed)
	}
	return domain.Iceberg(side, id, price, full, peak), nil
}

func parseCancel(fields []string) (Input, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformed, len(fields))
	}
	id, err := parseUint(fields[1])
	if err != nil {
		return nil, err
	}
	return &Cancel{ID: id}, nil
}

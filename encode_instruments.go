package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// The instruments file declares instruments ahead of the transaction log, one
// per record, without header:
//
//	identifier,instrument_type,currency,adjustment,transaction_cost[,held,invested]
//
// The adjustment is the dividends received for a Stock, the holding cost for
// an ETF, the interest rate as a fraction for a Bond, and must be empty for a
// Crypto. Held and invested declare a position opened before the log.
//
// Lines starting with '#' are comments.
const (
	instrumentFields        = 5
	instrumentHoldingFields = 7
)

// DecodeInstruments decodes instrument declarations.
//
// Decoding stops at the first malformed record. An identifier declared twice
// is an error.
func DecodeInstruments(r io.Reader) ([]*Instrument, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	seen := make(map[string]bool)
	var insts []*Instrument
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid instruments file: %w", err)
		}
		line, _ := cr.FieldPos(0)
		inst, err := decodeInstrument(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[inst.ID()] {
			return nil, fmt.Errorf("line %d: %s declared twice: %w", line, inst.ID(), ErrInvalidTransactionFields)
		}
		seen[inst.ID()] = true
		insts = append(insts, inst)
	}
	return insts, nil
}

func decodeInstrument(record []string) (*Instrument, error) {
	if len(record) != instrumentFields && len(record) != instrumentHoldingFields {
		return nil, fmt.Errorf("%d fields, want %d or %d: %w", len(record), instrumentFields, instrumentHoldingFields, ErrInvalidTransactionFields)
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	id, currency, adjustment := record[0], record[2], record[3]
	if id == "" {
		return nil, fmt.Errorf("missing identifier: %w", ErrInvalidTransactionFields)
	}
	t, err := ParseInstrumentType(record[1])
	if err != nil {
		return nil, err
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", id, err, ErrInvalidTransactionFields)
	}
	variant, err := decodeVariant(t, adjustment, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid adjustment %q: %w", id, adjustment, err)
	}

	held, invested := Q(0), M(0, currency)
	if len(record) == instrumentHoldingFields {
		if held, err = ParseQuantity(record[5]); err != nil {
			return nil, fmt.Errorf("%s: invalid held quantity %q: %w", id, record[5], ErrInvalidTransactionFields)
		}
		if invested, err = ParseMoney(record[6], currency); err != nil {
			return nil, fmt.Errorf("%s: invalid invested amount %q: %w", id, record[6], ErrInvalidTransactionFields)
		}
	}
	inst, err := NewHolding(id, currency, variant, held, invested)
	if err != nil {
		return nil, err
	}
	if record[4] != "" {
		cost, err := ParseMoney(record[4], currency)
		if err != nil || cost.IsNegative() {
			return nil, fmt.Errorf("%s: invalid transaction cost %q: %w", id, record[4], ErrInvalidTransactionFields)
		}
		inst.SetTransactionCost(cost)
	}
	return inst, nil
}

// decodeVariant builds the variant of type 't' from its adjustment field.
func decodeVariant(t InstrumentType, adjustment, currency string) (Variant, error) {
	if adjustment == "" {
		return t.NewVariant()
	}
	switch t {
	case Stock:
		dividends, err := ParseMoney(adjustment, currency)
		if err != nil {
			return nil, err
		}
		return Equity{Dividends: dividends}, nil
	case ETF:
		holdingCost, err := ParseMoney(adjustment, currency)
		if err != nil {
			return nil, err
		}
		return Fund{HoldingCost: holdingCost}, nil
	case Bond:
		rate, err := decimal.NewFromString(adjustment)
		if err != nil {
			return nil, err
		}
		return FixedIncome{InterestRate: rate}, nil
	}
	return nil, fmt.Errorf("%s has no adjustment: %w", t, ErrInvalidTransactionFields)
}

// LoadInstruments decodes instrument declarations and merges them in 'p'.
func LoadInstruments(r io.Reader, p *Portfolio) error {
	insts, err := DecodeInstruments(r)
	if err != nil {
		return err
	}
	return p.Merge(insts...)
}

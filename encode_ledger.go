package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tracker/date"
)

// The transaction log is a CSV stream without header, one transaction per record:
//
//	identifier,instrument_type,currency,kind,quantity,price,fee,date
//
// Lines starting with '#' are comments.
const logFields = 8

// DecodeLedger decodes transactions from a transaction log.
//
// All records on the same identifier share one Instrument, built from the
// first record; a later record declaring another type or currency is an
// error. Decoding stops at the first malformed record.
func DecodeLedger(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = logFields
	cr.TrimLeadingSpace = true

	instruments := make(map[string]*Instrument)
	var txs []Transaction
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid transaction log: %w", err)
		}
		line, _ := cr.FieldPos(0)
		tx, err := decodeTransaction(record, instruments)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func decodeTransaction(record []string, instruments map[string]*Instrument) (Transaction, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	id, typ, currency := record[0], record[1], record[2]
	if id == "" {
		return Transaction{}, fmt.Errorf("missing identifier: %w", ErrInvalidTransactionFields)
	}
	t, err := ParseInstrumentType(typ)
	if err != nil {
		return Transaction{}, err
	}
	if currency != "" {
		if err := ValidateCurrency(currency); err != nil {
			return Transaction{}, fmt.Errorf("%w: %w", err, ErrInvalidTransactionFields)
		}
	}
	kind, err := ParseKind(record[3])
	if err != nil {
		return Transaction{}, err
	}
	quantity, err := ParseQuantity(record[4])
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid quantity %q: %w", record[4], ErrInvalidTransactionFields)
	}
	price, err := ParseMoney(record[5], currency)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid price %q: %w", record[5], ErrInvalidTransactionFields)
	}
	fee := M(0, currency)
	if record[6] != "" {
		if fee, err = ParseMoney(record[6], currency); err != nil {
			return Transaction{}, fmt.Errorf("invalid fee %q: %w", record[6], ErrInvalidTransactionFields)
		}
	}
	var on date.Date
	if record[7] != "" {
		if on, err = date.Parse(record[7]); err != nil {
			return Transaction{}, fmt.Errorf("invalid date %q: %w", record[7], ErrInvalidTransactionFields)
		}
	}

	inst, ok := instruments[id]
	if !ok {
		variant, err := t.NewVariant()
		if err != nil {
			return Transaction{}, err
		}
		inst = NewInstrument(id, currency, variant)
		instruments[id] = inst
	}
	if inst.Type() != t {
		return Transaction{}, fmt.Errorf("%s declared as %s, then as %s: %w", id, inst.Type(), t, ErrInvalidTransactionFields)
	}
	if inst.Currency() != currency {
		return Transaction{}, fmt.Errorf("%s declared in %q, then in %q: %w", id, inst.Currency(), currency, ErrInvalidTransactionFields)
	}
	return NewTransaction(on, inst, kind, quantity, price, fee), nil
}

// EncodeTransaction writes a single transaction as one record.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(encodeTransaction(tx)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// EncodeLedger writes all transactions in order.
func EncodeLedger(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	for _, tx := range txs {
		if err := cw.Write(encodeTransaction(tx)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeTransaction(tx Transaction) []string {
	var typ InstrumentType
	if inst := tx.Instrument(); inst != nil {
		typ = inst.Type()
	}
	return []string{
		tx.ID(),
		string(typ),
		tx.Currency(),
		string(tx.Kind()),
		tx.Quantity().String(),
		tx.Price().Decimal().String(),
		tx.Fee().Decimal().String(),
		tx.Date().String(),
	}
}

// LoadPortfolio decodes a transaction log and bulk loads it in a new Portfolio.
func LoadPortfolio(r io.Reader, pageSize int) (*Portfolio, error) {
	p := NewPortfolio(pageSize)
	if err := LoadLedger(r, p); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadLedger decodes a transaction log and bulk loads it in 'p'.
func LoadLedger(r io.Reader, p *Portfolio) error {
	txs, err := DecodeLedger(r)
	if err != nil {
		return err
	}
	return p.BulkLoad(txs)
}

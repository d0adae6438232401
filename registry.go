package tracker

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Registry maps identifiers to instruments, at most one per identifier.
//
// Apply is the ordinary path updating a position from a transaction, Merge is
// reserved to bulk construction from several sources.
type Registry struct {
	instruments map[string]*Instrument
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instruments: make(map[string]*Instrument)}
}

// Len returns the number of instruments.
func (r *Registry) Len() int { return len(r.instruments) }

// Get returns the instrument registered under 'id' or nil.
func (r *Registry) Get(id string) *Instrument { return r.instruments[id] }

// IDs returns the registered identifiers in order.
func (r *Registry) IDs() []string { return slices.Sorted(maps.Keys(r.instruments)) }

// All iterates over instruments in identifier order.
func (r *Registry) All() iter.Seq[*Instrument] {
	return func(yield func(*Instrument) bool) {
		for _, id := range r.IDs() {
			if !yield(r.instruments[id]) {
				return
			}
		}
	}
}

// Remove drops the instrument registered under 'id', it reports whether there was one.
func (r *Registry) Remove(id string) bool {
	_, ok := r.instruments[id]
	delete(r.instruments, id)
	return ok
}

// Apply updates the position targeted by tx in place.
//
// An absent identifier is registered with a zeroed instrument. A buy moves the
// weighted-average entry price then adds to the quantity and the cost basis,
// the fee is never part of the cost basis. A sell removes quantity and cost
// basis at the transaction price and leaves the average untouched.
//
// Apply fails with ErrInsufficientHoldings when selling more than held, with
// ErrInvalidTransactionKind on an unknown kind and with ErrCurrencyMismatch when
// the price is not in the instrument currency. A failed Apply leaves the
// Registry unchanged.
func (r *Registry) Apply(tx Transaction) error {
	src := tx.Instrument()
	if src == nil {
		return fmt.Errorf("transaction has no instrument: %w", ErrInvalidTransactionFields)
	}
	inst, exists := r.instruments[src.ID()]
	if !exists {
		inst = src
		if !src.isZero() {
			inst = src.zeroed()
		}
	}
	if !tx.Price().Compatible(inst.invested) {
		return fmt.Errorf("%s price in %q, instrument is in %q: %w", tx.Kind(), tx.Price().Currency(), inst.invested.Currency(), ErrCurrencyMismatch)
	}
	amount := tx.Price().Mul(tx.Quantity())

	switch tx.Kind() {
	case Buy:
		held := inst.held.Add(tx.Quantity())
		// the average uses the quantity before the buy
		average := tx.Price()
		if inst.held.IsPositive() {
			average = inst.average.Mul(inst.held).Add(amount).Div(held)
		}
		inst.average = average
		inst.held = held
		inst.invested = inst.invested.Add(amount)
	case Sell:
		if tx.Quantity().GreaterThan(inst.held) {
			return fmt.Errorf("on %s, cannot sell %v of %s, position is only %v: %w", tx.Date(), tx.Quantity(), inst.id, inst.held, ErrInsufficientHoldings)
		}
		inst.held = inst.held.Sub(tx.Quantity())
		inst.invested = inst.invested.Sub(amount)
	default:
		return fmt.Errorf("%q: %w", string(tx.Kind()), ErrInvalidTransactionKind)
	}
	if inst.currency == "" {
		inst.currency = inst.invested.Currency()
	}

	if !exists {
		r.instruments[inst.id] = inst
	}
	return nil
}

// Merge registers 'inst', merging it with the instrument already registered
// under the same identifier, if any.
//
// It must not be used to apply transactions.
func (r *Registry) Merge(inst *Instrument) error {
	existing, ok := r.instruments[inst.id]
	if !ok {
		r.instruments[inst.id] = inst
		return nil
	}
	merged, err := Merge(existing, inst)
	if err != nil {
		return err
	}
	r.instruments[inst.id] = merged
	return nil
}

// Position is a snapshot of one instrument for reporting.
type Position struct {
	ID                string
	Type              InstrumentType
	Currency          string
	Held              Quantity
	Invested          Money
	AverageEntryPrice Money
	TransactionCost   Money
	Variant           Variant // variant-specific fields
}

// Position returns a snapshot of the instrument.
func (i *Instrument) Position() Position {
	return Position{
		ID:                i.id,
		Type:              i.Type(),
		Currency:          i.currency,
		Held:              i.held,
		Invested:          i.invested,
		AverageEntryPrice: i.average,
		TransactionCost:   i.cost,
		Variant:           i.variant,
	}
}

// Positions returns a snapshot of all positions in identifier order.
func (r *Registry) Positions() []Position {
	positions := make([]Position, 0, len(r.instruments))
	for inst := range r.All() {
		positions = append(positions, inst.Position())
	}
	return positions
}

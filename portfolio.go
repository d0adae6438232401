package tracker

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Portfolio owns a Registry and a Ledger and keeps them consistent: a
// transaction is either applied to the registry and appended to the ledger,
// or rejected with no effect on either.
//
// A Portfolio is safe for concurrent use.
type Portfolio struct {
	mu       sync.Mutex
	registry *Registry
	ledger   *Ledger
	log      zerolog.Logger
}

// NewPortfolio returns an empty portfolio whose ledger pages hold 'pageSize'
// transactions (DefaultPageSize if not positive).
func NewPortfolio(pageSize int) *Portfolio {
	return &Portfolio{
		registry: NewRegistry(),
		ledger:   NewLedger(pageSize),
		log:      zerolog.Nop(),
	}
}

// SetLogger sets the logger used for price fetching.
func (p *Portfolio) SetLogger(log zerolog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = log.With().Str("component", "portfolio").Logger()
}

// AddTransaction validates tx, applies it to the registry and appends it to
// the ledger.
//
// Quantity and price must be positive, the fee not negative, and all amounts
// in the instrument currency; a transaction with no currency adopts the
// instrument's. On error nothing is changed.
//
// The ledger records the transaction bound to the registered instrument, which
// may not be tx.Instrument() when the identifier was already registered.
func (p *Portfolio) AddTransaction(tx Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(tx)
}

func (p *Portfolio) add(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	target := p.registry.Get(tx.ID())
	if target == nil {
		target = tx.Instrument()
	} else if src := tx.Instrument(); src != nil && src.Type() != target.Type() {
		return fmt.Errorf("%s is a %s, transaction is on a %s: %w", tx.ID(), target.Type(), src.Type(), ErrInvalidTransactionFields)
	}
	tx, err := tx.bind(target)
	if err != nil {
		return err
	}
	if err := p.registry.Apply(tx); err != nil {
		return err
	}
	tx.instrument = p.registry.Get(tx.ID())
	p.ledger.Append(tx)
	return nil
}

// BulkLoad adds transactions in order, as many calls to AddTransaction would.
//
// It stops at the first failure, transactions before it stay applied.
func (p *Portfolio) BulkLoad(txs []Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, tx := range txs {
		if err := p.add(tx); err != nil {
			return fmt.Errorf("transaction #%d (%s %s on %s): %w", i+1, tx.Kind(), tx.ID(), tx.Date(), err)
		}
	}
	return nil
}

// Merge registers instruments declared outside of the ledger, merging each
// with the instrument already registered under its identifier.
//
// It stops at the first failure, instruments before it stay registered.
func (p *Portfolio) Merge(insts ...*Instrument) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, inst := range insts {
		if existing := p.registry.Get(inst.ID()); existing != nil && existing.Type() != inst.Type() {
			return fmt.Errorf("%s is a %s, cannot merge a %s: %w", inst.ID(), existing.Type(), inst.Type(), ErrInvalidTransactionFields)
		}
		if err := p.registry.Merge(inst); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops an instrument from the registry, the ledger keeps its
// transactions.
func (p *Portfolio) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Remove(id)
}

// Instrument returns a copy of the instrument registered under 'id', or nil.
func (p *Portfolio) Instrument(id string) *Instrument {
	p.mu.Lock()
	defer p.mu.Unlock()
	inst := p.registry.Get(id)
	if inst == nil {
		return nil
	}
	return inst.clone()
}

// Positions returns a snapshot of all positions in identifier order.
func (p *Portfolio) Positions() []Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Positions()
}

// Len returns the number of transactions in the ledger.
func (p *Portfolio) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Len()
}

// Transactions returns the ledger transactions accepted by all filters.
func (p *Portfolio) Transactions(filters ...Filter) []Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var txs []Transaction
	for tx := range p.ledger.Transactions(filters...) {
		txs = append(txs, tx)
	}
	return txs
}

// View returns page 'n' of the ledger.
func (p *Portfolio) View(n int) PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.View(n)
}

// Page is an alias for View.
func (p *Portfolio) Page(n int) PageView { return p.View(n) }

// TotalPages returns the number of ledger pages.
func (p *Portfolio) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.TotalPages()
}

// Pager returns a cursor on the ledger pages, positioned on the first page.
func (p *Portfolio) Pager() *Pager { return &Pager{src: p, page: 1} }

// Select returns a cursor on the pages of the ledger transactions accepted by
// all filters. Later transactions are not part of the selection.
func (p *Portfolio) Select(filters ...Filter) *Pager {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &selection{pageSize: p.ledger.PageSize()}
	for tx := range p.ledger.Transactions(filters...) {
		s.transactions = append(s.transactions, tx)
	}
	return &Pager{src: s, page: 1}
}

// snapshot returns detached copies of all instruments in identifier order.
func (p *Portfolio) snapshot() []*Instrument {
	p.mu.Lock()
	defer p.mu.Unlock()
	insts := make([]*Instrument, 0, p.registry.Len())
	for inst := range p.registry.All() {
		insts = append(insts, inst.clone())
	}
	return insts
}

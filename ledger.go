package tracker

import (
	"fmt"
	"iter"
	"slices"
)

// DefaultPageSize is the page size of a Ledger created without one.
const DefaultPageSize = 20

// Ledger represents the ordered list of transactions, the system of record.
//
// Transactions are only ever appended. Validation happens in the Portfolio,
// not here.
type Ledger struct {
	transactions []Transaction
	pageSize     int
}

// NewLedger creates an empty ledger, a non-positive pageSize means DefaultPageSize.
func NewLedger(pageSize int) *Ledger {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Ledger{pageSize: pageSize}
}

// Append adds a transaction at the end of the ledger.
func (l *Ledger) Append(tx Transaction) { l.transactions = append(l.transactions, tx) }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// PageSize returns the number of transactions per page.
func (l *Ledger) PageSize() int { return l.pageSize }

// Transactions iterates over transactions in order, keeping only those
// accepted by all filters.
func (l *Ledger) Transactions(filters ...Filter) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, tx := range l.transactions {
			for _, f := range filters {
				if !f(tx) {
					continue next
				}
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// Page returns a copy of page 'n' (1-indexed).
func (l *Ledger) Page(n int) []Transaction {
	return slices.Clone(Page(l.transactions, n, l.pageSize))
}

// TotalPages returns the number of pages, at least 1.
func (l *Ledger) TotalPages() int { return TotalPages(len(l.transactions), l.pageSize) }

// PageView is a page of the ledger as presented to a reader.
type PageView struct {
	Number       int
	Total        int
	Transactions []Transaction
}

// View returns page 'n' with its position in the ledger.
func (l *Ledger) View(n int) PageView {
	return PageView{
		Number:       n,
		Total:        l.TotalPages(),
		Transactions: l.Page(n),
	}
}

// Replay rebuilds the registry by applying every transaction in order.
//
// Transactions are applied to fresh instruments, leaving the ones referenced
// by the ledger untouched.
func (l *Ledger) Replay() (*Registry, error) {
	r := NewRegistry()
	fresh := make(map[string]*Instrument)
	for i, tx := range l.transactions {
		inst, ok := fresh[tx.ID()]
		if !ok && tx.Instrument() != nil {
			inst = tx.Instrument().zeroed()
			fresh[tx.ID()] = inst
		}
		tx.instrument = inst
		if err := r.Apply(tx); err != nil {
			return nil, fmt.Errorf("replaying transaction #%d: %w", i+1, err)
		}
	}
	return r, nil
}

// Page returns page 'n' (1-indexed) of 'txs' split in pages of 'size'.
//
// Page 1 holds the oldest entries. Out of range pages are empty.
func Page[T any](txs []T, n, size int) []T {
	if n < 1 || size < 1 {
		return nil
	}
	start := (n - 1) * size
	if start >= len(txs) {
		return nil
	}
	end := min(start+size, len(txs))
	return txs[start:end:end]
}

// TotalPages returns ceil(length/size), at least 1.
func TotalPages(length, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	return max(1, (length+size-1)/size)
}

// selection is a fixed list of transactions, paged like a ledger.
type selection struct {
	transactions []Transaction
	pageSize     int
}

func (s *selection) TotalPages() int { return TotalPages(len(s.transactions), s.pageSize) }

func (s *selection) View(n int) PageView {
	return PageView{
		Number:       n,
		Total:        s.TotalPages(),
		Transactions: Page(s.transactions, n, s.pageSize),
	}
}

// pageSource is what a Pager browses.
type pageSource interface {
	View(n int) PageView
	TotalPages() int
}

// Pager is a cursor over the pages of a ledger, for interactive readers.
//
// Moves beyond the bounds report false and leave the cursor in place.
type Pager struct {
	src  pageSource
	page int
}

// NewPager returns a Pager on the first page of 'l'.
func NewPager(l *Ledger) *Pager { return &Pager{src: l, page: 1} }

// Current returns the current page number.
func (p *Pager) Current() int { return p.page }

// Total returns the number of pages.
func (p *Pager) Total() int { return p.src.TotalPages() }

// View returns the current page.
func (p *Pager) View() PageView { return p.src.View(p.page) }

// Set moves to page 'n' if it exists.
func (p *Pager) Set(n int) bool {
	if n < 1 || n > p.src.TotalPages() {
		return false
	}
	p.page = n
	return true
}

func (p *Pager) Next() bool     { return p.Set(p.page + 1) }
func (p *Pager) Previous() bool { return p.Set(p.page - 1) }
func (p *Pager) First() bool    { return p.Set(1) }
func (p *Pager) Last() bool     { return p.Set(p.src.TotalPages()) }

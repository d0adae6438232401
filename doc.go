// Package tracker derives positions and performance from an append-only
// ledger of buy and sell transactions.
//
// The core functionalities include:
//   - Instruments: a common record (held quantity, cost basis, weighted-average
//     entry price) with one Variant (Equity, Fund, FixedIncome, Crypto) that
//     supplies the adjustment applied to profit and loss.
//   - Registry: the mapping from identifier to Instrument, mutated in place by
//     Apply and merged explicitly by Merge for bulk construction.
//   - Ledger: the ordered, paginated log of transactions, the system of record.
//   - Portfolio: the only component mutating both the Registry and the Ledger,
//     one transaction at a time, and the entry point of performance reports
//     fetched concurrently from a PriceProvider.
//   - Data Persistence: a CSV codec for the transaction log.
//
// This package serves as the foundational logic for the `ptrack` command-line
// tool.
package tracker

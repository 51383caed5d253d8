// Package reconciliation rebuilds historical wallet balances from a current
// balance snapshot and replays a filtered window of ledger transactions to
// produce running balances, totals and a verifiable report.
//
// Everything in this package is a pure function of its inputs: the current
// balance and "now" are always passed in explicitly, inputs are never mutated,
// and all arithmetic is done on integer minor units.
//
// Boundary convention: a transaction whose CreatedAt equals the instant a
// balance is reconstructed for is treated as happening at or after that
// instant, so its effect is reversed out of the reconstructed balance.
package reconciliation

// Package models defines the core domain models for Splitzy.
//
// # Models
//
//   - Ledger: a shared household ledger with its participant roster
//   - Participant: a person who can pay for or owe a share of a bill
//   - Bill: one expense event with a payer and per-participant splits
//   - Split: one participant's owed share of a bill
//   - Category: the fixed set of bill categories
//   - Transfer: a suggested payment produced by the settlement engine
//   - SpendingStats: aggregate spending numbers for display
//   - SettlementRound: a recorded "settle everything" action
//
// # Design Principles
//
// 1. **Values, not owners**: models reference each other by ID strings, never pointers
// 2. **Exact money**: all amounts are decimal.Decimal
// 3. **Roster order matters**: Ledger.Participants order is the tie-break order of the engine
package models

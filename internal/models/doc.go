// Package models defines the core domain models for the shared-expense ledger.
//
// # Models
//
//   - Expense: a shared expense fronted by one participant and split equally
//     among a set of participants
//   - Participant: the identifier of a person who may owe or be owed money
//
// Balances and settlement transfers are derived values and live in the
// ledger package; nothing here computes them.
//
// # Design Principles
//
// 1. **Explicit identifiers**: participants are a dedicated type, never raw
// strings, so "Maria " and "maria" name the same person
// 2. **Decimal money**: amounts are decimal.Decimal, rounded only for display
// 3. **Stores own lifecycle**: IDs and CreatedAt are assigned by the store
package models

// Package models defines the core domain models of the group-buy engine.
//
// # Models
//
//   - Basket / BasketItem: a frozen snapshot of the cart a leader checked out with,
//     including the admin-defined price ladder of every line.
//   - Group: a purchase group started by a leader, priced by how many friends pay
//     before the deadline.
//   - Participant: the leader or a friend who joined through an invite link.
//   - Settlement: the reconciliation between the leader's initial payment and the
//     final price once a group closes.
//
// # Design Principles
//
//  1. Money is int64 in the smallest currency unit, never float.
//  2. A group owns a copy of its basket, never a reference to a mutable cart.
//  3. Relationships use ID strings instead of pointers.
//  4. Terminal groups are never deleted; they are kept for settlement auditing.
package models

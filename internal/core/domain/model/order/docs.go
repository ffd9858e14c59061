// Package order provides the Order aggregate of the bookstore: a purchase with
// its line items, addresses and lifecycle status.
//
// The package includes:
//   - Order: the aggregate root, owner of its items, with a derived total
//   - Item: a book, a quantity and the unit price captured at order time
//   - Status: the lifecycle states and the transition rules between them
//
// Key business rules:
//   - An order always has at least one item, and at most one item per book
//   - Captured unit prices never change after the order is placed
//   - A cancelled order cannot be updated
//   - A delivered order can only be refunded
//   - Addresses can only change while the order is pending or confirmed
package order

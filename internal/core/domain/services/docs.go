// Package services provides domain services that compute values spanning more
// than one aggregate in the bookstore.
//
// The package includes:
//   - PricingService: estimates line and cart prices from catalogue prices and
//     a set of pricing rules
//
// Services here are pure. They never open a transaction and are invoked by
// queries after the data has been read.
package services

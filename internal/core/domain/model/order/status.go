package order

import (
	"fmt"

	"bookstore/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Processing ──> Shipped ──> Delivered
//	   │            │                           │            │
//	   └────┬───────┘                           └─────┬──────┘
//	        v                                         v
//	    Cancelled                                 Refunded
//
// Only two rules are enforced when a transition is requested: a cancelled
// order never changes again, and a delivered order may only become refunded.
// The Can* predicates describe the intended workflow and are left to callers
// that want stricter checks.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a placed order.
	Pending

	// Confirmed indicates the order has been accepted by the store.
	Confirmed

	// Processing indicates the order is being picked and packed.
	Processing

	// Shipped indicates the order left the warehouse.
	Shipped

	// Delivered indicates the order reached the customer.
	// Only a refund may follow.
	Delivered

	// Cancelled is a final state.
	Cancelled

	// Refunded is a final state.
	Refunded
)

// getStatusStrings returns a map of Status values to their persisted names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
		Refunded:   "refunded",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
		Refunded:   "refunded",
	}
}

// ParseStatus converts a persisted or user supplied name ("pending", "shipped", ...)
// to a Status. Unknown names are rejected.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the seven lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// TransitionTo checks whether the status may change to target and returns target when it may.
//
// Rejections:
//   - target is not a valid status: validation error
//   - current status is Cancelled: conflict "cannot update cancelled order"
//   - current status is Delivered and target is not Refunded: conflict "can only refund delivered orders"
//
// Every other transition is accepted.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if s == Cancelled {
		return Unknown, errs.NewConflictError("cannot update cancelled order")
	}
	if s == Delivered && target != Refunded {
		return Unknown, errs.NewConflictError("can only refund delivered orders")
	}
	return target, nil
}

// CanBeCancelled reports whether the order is still pending or confirmed.
// Address changes are allowed only in these states.
func (s Status) CanBeCancelled() bool {
	return s == Pending || s == Confirmed
}

// CanBeShipped reports whether the order is confirmed or processing.
func (s Status) CanBeShipped() bool {
	return s == Confirmed || s == Processing
}

// CanBeDelivered reports whether the order is shipped.
func (s Status) CanBeDelivered() bool {
	return s == Shipped
}

// CanBeRefunded reports whether the order is delivered or shipped.
func (s Status) CanBeRefunded() bool {
	return s == Delivered || s == Shipped
}

// IsCompleted reports whether the order reached delivered, cancelled or refunded.
func (s Status) IsCompleted() bool {
	return s == Delivered || s == Cancelled || s == Refunded
}

// IsActive is the negation of IsCompleted.
func (s Status) IsActive() bool {
	return !s.IsCompleted()
}

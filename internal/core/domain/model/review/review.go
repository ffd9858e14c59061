// Package review provides the Review aggregate: one user's rating and comment for one book.
package review

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

const (
	MinRating = 1
	MaxRating = 5

	maxCommentLength = 1000
)

// ErrReviewIsNotConstructed is returned when a Review was not created through NewReview or RestoreReview.
var ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview constructor")

// Review is a rating between 1 and 5 with a non-empty comment.
type Review struct {
	id        kernel.UUID
	bookID    kernel.UUID
	userID    kernel.UUID
	rating    int
	comment   string
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewReview creates a review.
func NewReview(id, bookID, userID kernel.UUID, rating int, comment string) (*Review, error) {
	now := time.Now().UTC()
	return RestoreReview(id, bookID, userID, rating, comment, now, now)
}

// RestoreReview rebuilds a review from persistence.
func RestoreReview(
	id, bookID, userID kernel.UUID,
	rating int,
	comment string,
	createdAt, updatedAt time.Time,
) (*Review, error) {
	r := &Review{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		bookID.Validate(),
		userID.Validate(),
		r.setRating(rating),
		r.setComment(comment),
	); err != nil {
		return nil, err
	}
	r.id, r.bookID, r.userID = id, bookID, userID

	return r, nil
}

// Validate ensures the Review instance was properly constructed.
func (r *Review) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReviewIsNotConstructed
	}
	return nil
}

func (r *Review) ID() kernel.UUID { return r.id }
func (r *Review) BookID() kernel.UUID { return r.bookID }
func (r *Review) UserID() kernel.UUID { return r.userID }
func (r *Review) Rating() int { return r.rating }
func (r *Review) Comment() string { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }

// IsPositive reports a rating of 4 or 5.
func (r *Review) IsPositive() bool { return r.rating >= 4 }

// IsNegative reports a rating of 1 or 2.
func (r *Review) IsNegative() bool { return r.rating <= 2 }

// Update replaces rating and comment together.
func (r *Review) Update(rating int, comment string) error {
	if err := errors.Join(validateRating(rating), validateComment(comment)); err != nil {
		return err
	}
	r.rating = rating
	r.comment = comment
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *Review) setRating(rating int) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	r.rating = rating
	return nil
}

func (r *Review) setComment(comment string) error {
	if err := validateComment(comment); err != nil {
		return err
	}
	r.comment = comment
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	return nil
}

func validateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return errs.NewValueIsRequiredError("comment")
	}
	if n := utf8.RuneCountInString(comment); n > maxCommentLength {
		return errs.NewValueIsOutOfRangeError("comment length", n, 1, maxCommentLength)
	}
	return nil
}

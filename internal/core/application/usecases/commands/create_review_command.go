package commands

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/review"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrCreateReviewCommandIsNotConstructed = errors.New(
	"CreateReviewCommand must be created via NewCreateReviewCommand constructor",
)

// CreateReviewCommand records one user's rating of one book.
type CreateReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID kernel.UUID
	bookID   kernel.UUID
	userID   kernel.UUID
	rating   int
	comment  string

	guard guard.ConstructorGuard
}

// NewCreateReviewCommand creates the command. Rating and comment limits are enforced by the Review aggregate.
func NewCreateReviewCommand(reviewID, bookID, userID kernel.UUID, rating int, comment string) (CreateReviewCommand, error) {
	if err := errors.Join(reviewID.Validate(), bookID.Validate(), userID.Validate()); err != nil {
		return CreateReviewCommand{}, err
	}

	return CreateReviewCommand{
		reviewID: reviewID,
		bookID:   bookID,
		userID:   userID,
		rating:   rating,
		comment:  comment,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateReviewCommand) Validate() error {
	return c.guard.Validate(ErrCreateReviewCommandIsNotConstructed)
}

// CreateReviewCommandHandler inserts reviews. A user reviews a book at most once.
type CreateReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewCreateReviewCommandHandler(uowFactory ReviewUoWFactory) CreateReviewCommandHandler {
	return CreateReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *CreateReviewCommandHandler) Handle(ctx context.Context, cmd CreateReviewCommand) (*review.Review, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := review.NewReview(cmd.reviewID, cmd.bookID, cmd.userID, cmd.rating, cmd.comment)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bookRepo, err := uow.BookRepository()
	if err != nil {
		return nil, err
	}
	userRepo, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	reviewRepo, err := uow.ReviewRepository()
	if err != nil {
		return nil, err
	}

	if _, err = bookRepo.Get(ctx, cmd.bookID); err != nil {
		return nil, err
	}
	if _, err = userRepo.Get(ctx, cmd.userID); err != nil {
		return nil, err
	}

	_, err = reviewRepo.FindByUserAndBook(ctx, cmd.userID, cmd.bookID)
	switch {
	case err == nil:
		return nil, errs.NewConflictError("user has already reviewed this book")
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	if err = reviewRepo.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

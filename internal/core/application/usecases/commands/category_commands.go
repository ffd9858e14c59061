package commands

import (
	"context"
	"errors"
	"log/slog"

	"bookstore/internal/core/domain/model/category"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

// CategoryListingsPattern matches the cached category trees and listings.
const CategoryListingsPattern = "categories:*"

var (
	ErrCreateCategoryCommandIsNotConstructed = errors.New(
		"CreateCategoryCommand must be created via NewCreateCategoryCommand constructor",
	)
	ErrReparentCategoryCommandIsNotConstructed = errors.New(
		"ReparentCategoryCommand must be created via NewReparentCategoryCommand constructor",
	)
	ErrDeleteCategoryCommandIsNotConstructed = errors.New(
		"DeleteCategoryCommand must be created via NewDeleteCategoryCommand constructor",
	)
)

// CreateCategoryCommand adds a category, optionally under a parent.
type CreateCategoryCommand struct { //nolint:recvcheck //using for validation
	categoryID  kernel.UUID
	name        string
	description string
	parentID    *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateCategoryCommand(
	categoryID kernel.UUID,
	name, description string,
	parentID *kernel.UUID,
) (CreateCategoryCommand, error) {
	if err := categoryID.Validate(); err != nil {
		return CreateCategoryCommand{}, err
	}
	if parentID != nil {
		if err := parentID.Validate(); err != nil {
			return CreateCategoryCommand{}, err
		}
	}

	return CreateCategoryCommand{
		categoryID:  categoryID,
		name:        name,
		description: description,
		parentID:    parentID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCategoryCommand) Validate() error {
	return c.guard.Validate(ErrCreateCategoryCommandIsNotConstructed)
}

// ReparentCategoryCommand moves a category under another parent, or to the root when ParentID is nil.
type ReparentCategoryCommand struct { //nolint:recvcheck //using for validation
	categoryID kernel.UUID
	parentID   *kernel.UUID

	guard guard.ConstructorGuard
}

func NewReparentCategoryCommand(categoryID kernel.UUID, parentID *kernel.UUID) (ReparentCategoryCommand, error) {
	if err := categoryID.Validate(); err != nil {
		return ReparentCategoryCommand{}, err
	}
	if parentID != nil {
		if err := parentID.Validate(); err != nil {
			return ReparentCategoryCommand{}, err
		}
	}

	return ReparentCategoryCommand{categoryID: categoryID, parentID: parentID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReparentCategoryCommand) Validate() error {
	return c.guard.Validate(ErrReparentCategoryCommandIsNotConstructed)
}

// DeleteCategoryCommand removes a category without children.
type DeleteCategoryCommand struct { //nolint:recvcheck //using for validation
	categoryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteCategoryCommand(categoryID kernel.UUID) (DeleteCategoryCommand, error) {
	if err := categoryID.Validate(); err != nil {
		return DeleteCategoryCommand{}, err
	}
	return DeleteCategoryCommand{categoryID: categoryID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteCategoryCommand) Validate() error {
	return c.guard.Validate(ErrDeleteCategoryCommandIsNotConstructed)
}

// CategoryCommandHandler maintains the category tree. Cached listings are
// dropped after each committed change.
type CategoryCommandHandler struct {
	transactor ports.Transactor
	cache      ports.CacheInvalidator
	logger     *slog.Logger
}

func NewCategoryCommandHandler(
	transactor ports.Transactor,
	cache ports.CacheInvalidator,
	logger *slog.Logger,
) CategoryCommandHandler {
	return CategoryCommandHandler{
		transactor: transactor,
		cache:      cache,
		logger:     logger,
	}
}

// HandleCreate inserts the category after checking that its parent exists.
func (h *CategoryCommandHandler) HandleCreate(ctx context.Context, cmd CreateCategoryCommand) (*category.Category, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := category.NewCategory(cmd.categoryID, cmd.name, cmd.description, cmd.parentID)
	if err != nil {
		return nil, err
	}

	err = h.transactor.RunAtomically(ctx, func(ctx context.Context, scope ports.Repositories) error {
		categoryRepo, err := scope.CategoryRepository()
		if err != nil {
			return err
		}
		if cmd.parentID != nil {
			if _, err = categoryRepo.Get(ctx, *cmd.parentID); err != nil {
				return err
			}
		}
		return categoryRepo.Add(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, h.cache, h.logger, CategoryListingsPattern)
	return created, nil
}

// HandleReparent moves the category. Moving it below one of its own descendants is a conflict.
func (h *CategoryCommandHandler) HandleReparent(
	ctx context.Context,
	cmd ReparentCategoryCommand,
) (*category.Category, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	moved, err := ports.RunAtomicallyWithResult(ctx, h.transactor,
		func(ctx context.Context, scope ports.Repositories) (*category.Category, error) {
			categoryRepo, err := scope.CategoryRepository()
			if err != nil {
				return nil, err
			}

			current, err := categoryRepo.Get(ctx, cmd.categoryID)
			if err != nil {
				return nil, err
			}

			if cmd.parentID != nil {
				if err = ensureNotDescendant(ctx, categoryRepo, cmd.categoryID, *cmd.parentID); err != nil {
					return nil, err
				}
			}

			if err = current.SetParent(cmd.parentID); err != nil {
				return nil, err
			}
			if err = categoryRepo.Update(ctx, current); err != nil {
				return nil, err
			}
			return current, nil
		})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, h.cache, h.logger, CategoryListingsPattern)
	return moved, nil
}

// HandleDelete removes a leaf category.
func (h *CategoryCommandHandler) HandleDelete(ctx context.Context, cmd DeleteCategoryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.transactor.RunAtomically(ctx, func(ctx context.Context, scope ports.Repositories) error {
		categoryRepo, err := scope.CategoryRepository()
		if err != nil {
			return err
		}

		children, err := categoryRepo.FindByParent(ctx, &cmd.categoryID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return errs.NewConflictError("category has subcategories")
		}

		return categoryRepo.Delete(ctx, cmd.categoryID)
	})
	if err != nil {
		return err
	}

	invalidate(ctx, h.cache, h.logger, CategoryListingsPattern)
	return nil
}

// ensureNotDescendant walks up from parentID and fails if it meets categoryID.
// The walk also loads every ancestor, so an unknown parent is a NotFound error.
func ensureNotDescendant(
	ctx context.Context,
	categoryRepo ports.CategoryRepository,
	categoryID, parentID kernel.UUID,
) error {
	visited := make(map[kernel.UUID]struct{})
	next := &parentID

	for next != nil {
		if next.IsEqual(categoryID) {
			return errs.NewConflictError("category cannot be moved below itself")
		}
		if _, seen := visited[*next]; seen {
			return errs.NewConflictError("category tree contains a cycle")
		}
		visited[*next] = struct{}{}

		ancestor, err := categoryRepo.Get(ctx, *next)
		if err != nil {
			return err
		}
		next = ancestor.ParentID()
	}

	return nil
}

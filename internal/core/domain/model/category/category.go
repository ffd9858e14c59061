// Package category provides the Category aggregate: a named node in the
// catalogue tree with an optional parent.
package category

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// ErrCategoryIsNotConstructed is returned when a Category was not created through NewCategory or RestoreCategory.
var ErrCategoryIsNotConstructed = errors.New("Category must be created via NewCategory constructor")

// Category is a catalogue node.
type Category struct {
	id          kernel.UUID
	name        string
	description string
	parentID    *kernel.UUID
	createdAt   time.Time
	updatedAt   time.Time

	isConstructed bool
}

// NewCategory creates a category. parentID may be nil for a root category.
func NewCategory(id kernel.UUID, name, description string, parentID *kernel.UUID) (*Category, error) {
	now := time.Now().UTC()
	return RestoreCategory(id, name, description, parentID, now, now)
}

// RestoreCategory rebuilds a category from persistence.
func RestoreCategory(
	id kernel.UUID,
	name, description string,
	parentID *kernel.UUID,
	createdAt, updatedAt time.Time,
) (*Category, error) {
	c := &Category{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setDescription(description),
	); err != nil {
		return nil, err
	}
	if err := c.setParent(parentID); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Category instance was properly constructed.
func (c *Category) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCategoryIsNotConstructed
	}
	return nil
}

func (c *Category) ID() kernel.UUID { return c.id }
func (c *Category) Name() string { return c.name }
func (c *Category) Description() string { return c.description }
func (c *Category) ParentID() *kernel.UUID { return c.parentID }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.parentID == nil
}

// Rename replaces name and description.
func (c *Category) Rename(name, description string) error {
	if err := errors.Join(c.setName(name), c.setDescription(description)); err != nil {
		return err
	}
	c.touch()
	return nil
}

// SetParent moves the category under parentID, or to the root when nil.
// A category cannot be its own parent; deeper cycles are checked by the caller,
// which can see the rest of the tree.
func (c *Category) SetParent(parentID *kernel.UUID) error {
	if err := c.setParent(parentID); err != nil {
		return err
	}
	c.touch()
	return nil
}

func (c *Category) touch() {
	c.updatedAt = time.Now().UTC()
}

func (c *Category) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Category) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("category name")
	}
	if n := utf8.RuneCountInString(name); n > maxNameLength {
		return errs.NewValueIsOutOfRangeError("category name length", n, 1, maxNameLength)
	}
	c.name = name
	return nil
}

func (c *Category) setDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("category description length", n, 0, maxDescriptionLength)
	}
	c.description = description
	return nil
}

func (c *Category) setParent(parentID *kernel.UUID) error {
	if parentID == nil {
		c.parentID = nil
		return nil
	}
	if err := parentID.Validate(); err != nil {
		return err
	}
	if parentID.IsEqual(c.id) {
		return errs.NewConflictError("category cannot be its own parent")
	}
	parent := *parentID
	c.parentID = &parent
	return nil
}

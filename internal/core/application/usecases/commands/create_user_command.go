package commands

import (
	"context"
	"errors"

	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/user"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/errs"
	"bookstore/internal/pkg/guard"
)

var ErrCreateUserCommandIsNotConstructed = errors.New(
	"CreateUserCommand must be created via NewCreateUserCommand constructor",
)

// CreateUserCommand registers a user. The password arrives already hashed.
type CreateUserCommand struct { //nolint:recvcheck //using for validation
	userID       kernel.UUID
	email        string
	passwordHash string
	firstName    string
	lastName     string
	role         user.Role

	guard guard.ConstructorGuard
}

// NewCreateUserCommand creates the command. Field formats are checked by the User aggregate.
func NewCreateUserCommand(
	userID kernel.UUID,
	email, passwordHash, firstName, lastName string,
	role user.Role,
) (CreateUserCommand, error) {
	if err := userID.Validate(); err != nil {
		return CreateUserCommand{}, err
	}
	if email == "" {
		return CreateUserCommand{}, errs.NewValueIsRequiredError("email")
	}

	return CreateUserCommand{
		userID:       userID,
		email:        email,
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		role:         role,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateUserCommandIsNotConstructed)
}

// CreateUserCommandHandler checks email uniqueness and inserts the user in one scope.
// The unique index on email backs the check up under concurrent registrations.
type CreateUserCommandHandler struct {
	transactor ports.Transactor
}

func NewCreateUserCommandHandler(transactor ports.Transactor) CreateUserCommandHandler {
	return CreateUserCommandHandler{transactor: transactor}
}

func (h *CreateUserCommandHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	newUser, err := user.NewUser(cmd.userID, cmd.email, cmd.passwordHash, cmd.firstName, cmd.lastName, cmd.role)
	if err != nil {
		return nil, err
	}

	err = h.transactor.RunAtomically(ctx, func(ctx context.Context, scope ports.Repositories) error {
		userRepo, err := scope.UserRepository()
		if err != nil {
			return err
		}

		exists, err := userRepo.ExistsByEmail(ctx, newUser.Email())
		if err != nil {
			return err
		}
		if exists {
			return errs.NewConflictError("email is already registered")
		}

		return userRepo.Add(ctx, newUser)
	})
	if err != nil {
		return nil, err
	}

	return newUser, nil
}

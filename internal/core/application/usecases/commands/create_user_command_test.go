package commands_test

import (
	"testing"

	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/domain/model/user"
	"bookstore/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateUserCommandHandler_Handle(t *testing.T) {
	t.Run("registers a new email", func(t *testing.T) {
		repo := new(MockUserRepository)
		scope := new(MockRepositories)
		scope.On("UserRepository").Return(repo, nil).Once()
		repo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(false, nil).Once()
		repo.On("Add", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil).Once()

		cmd, err := commands.NewCreateUserCommand(kernel.NewUUID(), " Ada@Example.com ", "hash", "Ada", "Lovelace",
			user.Customer)
		require.NoError(t, err)

		h := commands.NewCreateUserCommandHandler(&inlineTransactor{scope: scope})
		created, err := h.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", created.Email())
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		scope := new(MockRepositories)
		scope.On("UserRepository").Return(repo, nil).Once()
		repo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(true, nil).Once()

		cmd, err := commands.NewCreateUserCommand(kernel.NewUUID(), "ada@example.com", "hash", "Ada", "Lovelace",
			user.Customer)
		require.NoError(t, err)

		h := commands.NewCreateUserCommandHandler(&inlineTransactor{scope: scope})
		_, err = h.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("invalid email never opens a scope", func(t *testing.T) {
		transactor := &inlineTransactor{scope: new(MockRepositories)}
		cmd, err := commands.NewCreateUserCommand(kernel.NewUUID(), "not-an-email", "hash", "Ada", "Lovelace",
			user.Customer)
		require.NoError(t, err)

		h := commands.NewCreateUserCommandHandler(transactor)
		_, err = h.Handle(t.Context(), cmd)

		require.True(t, errs.IsValidation(err))
		assert.Zero(t, transactor.runs)
	})
}

package repository

import (
	"context"
	"testing"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	for name, newRepo := range userRepoFactories() {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)

			manager := &model.User{Email: "grace@example.com", Name: "Grace", Role: model.RoleManager}
			require.NoError(t, repo.Create(ctx, manager))
			assert.NotEmpty(t, manager.ID)

			employee := &model.User{
				Email:     "ada@example.com",
				Name:      "Ada",
				Role:      model.RoleEmployee,
				ManagerID: &manager.ID,
			}
			require.NoError(t, repo.Create(ctx, employee))

			got, err := repo.ByID(ctx, employee.ID)
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", got.Email)
			assert.Equal(t, model.RoleEmployee, got.Role)
			require.NotNil(t, got.ManagerID)
			assert.Equal(t, manager.ID, *got.ManagerID)

			_, err = repo.ByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrUserNotFound)

			dup := &model.User{Email: "ada@example.com", Role: model.RoleEmployee}
			assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)

			users, err := repo.Users(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 2)
		})
	}
}

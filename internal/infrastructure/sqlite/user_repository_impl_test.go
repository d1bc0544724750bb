package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
	"github.com/oksasatya/go-user-management/internal/domain/repository"
)

func newTestRepo(t *testing.T, name string) *UserRepository {
	t.Helper()
	db, err := Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(db)
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := newTestRepo(t, "crud")
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	ann := &entity.User{Name: "Ann", Email: "a@x.com", Phone: "1"}
	require.NoError(t, repo.Create(ctx, ann))
	require.NotEmpty(t, ann.ID)
	assert.False(t, ann.CreatedAt.IsZero())

	// duplicate email is allowed
	bob := &entity.User{Name: "Bob", Email: "a@x.com", Phone: "2", Image: "7_b.png"}
	require.NoError(t, repo.Create(ctx, bob))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ann.ID, list[0].ID)
	assert.Equal(t, bob.ID, list[1].ID)

	got, err := repo.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "", got.Image)

	upd, err := repo.UpdateByID(ctx, bob.ID, entity.UserFields{Name: "Rob", Email: "r@x.com", Phone: "3", Image: ""})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, upd.ID)
	assert.Equal(t, "Rob", upd.Name)
	assert.Equal(t, "", upd.Image)

	del, err := repo.DeleteByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", del.Name)

	_, err = repo.GetByID(ctx, ann.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_MissingID(t *testing.T) {
	repo := newTestRepo(t, "missing")
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.UpdateByID(ctx, "nope", entity.UserFields{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.DeleteByID(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/users.db"
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

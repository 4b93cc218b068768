//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	repo "github.com/user/moovie-api/internal/repository"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "moovie_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/moovie_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_Postgres(t *testing.T) {
	ctx := context.Background()
	db, err := repo.InitDB(dsn)
	require.NoError(t, err)
	repos := repo.NewRepositories(db)

	// 迁移可重复执行
	require.NoError(t, repo.Migrate(ctx, db))

	role, err := repos.Role.FindByName(ctx, model.RoleUser)
	require.NoError(t, err)
	require.NotNil(t, role)

	t.Run("user_repository", func(t *testing.T) {
		in := model.CreateUserInput{Email: "a@x.com", Name: "A", Password: "hash", RoleID: role.ID}
		user := in.NewRecord(uuid.NewString())
		require.NoError(t, repos.User.Create(ctx, user))

		dup := in.NewRecord(uuid.NewString())
		require.ErrorIs(t, repos.User.Create(ctx, dup), repo.ErrDuplicateKey)

		got, err := repos.User.FindOneByID(ctx, user.ID, repo.FindOptions{
			Projection: query.Exclude("password"),
			Expand:     []string{"Role"},
		})
		require.NoError(t, err)
		require.Equal(t, "a@x.com", got.Email)
		require.Empty(t, got.Password)
		require.Equal(t, model.RoleUser, got.Role.Name)

		added, err := repos.User.AddFavourite(ctx, user.ID, "the-matrix")
		require.NoError(t, err)
		require.True(t, added)
		added, err = repos.User.AddFavourite(ctx, user.ID, "the-matrix")
		require.NoError(t, err)
		require.False(t, added)

		for _, slug := range []string{"a", "b", "a"} {
			_, err := repos.User.AddRecent(ctx, user.ID, slug)
			require.NoError(t, err)
		}
		got, err = repos.User.FindOneByID(ctx, user.ID, repo.FindOptions{Projection: query.Include("recent_movies")})
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, []string(got.RecentMovies))

		res, err := repos.User.UpdateOne(ctx, query.Where(query.Eq("id", user.ID)), map[string]any{"is_deleted": true})
		require.NoError(t, err)
		require.Equal(t, int64(1), res.Modified)

		// 软删除后仍可按 ID 查到
		deleted, err := repos.User.FindOneByID(ctx, user.ID, repo.FindOptions{})
		require.NoError(t, err)
		require.NotNil(t, deleted)
		require.True(t, deleted.IsDeleted)

		active, err := repos.User.FindMany(ctx, query.Where(query.Eq("is_deleted", false)), repo.ListOptions{})
		require.NoError(t, err)
		require.Empty(t, active)
	})

	t.Run("movie_repository", func(t *testing.T) {
		require.NoError(t, repos.Movie.UpView(ctx, "the-matrix"))
		require.NoError(t, repos.Movie.UpView(ctx, "the-matrix"))

		movie, err := repos.Movie.FindBySlug(ctx, "the-matrix")
		require.NoError(t, err)
		require.Equal(t, int64(2), movie.Views)

		liked, err := repos.Movie.AddLiker(ctx, "the-matrix", "u1")
		require.NoError(t, err)
		require.True(t, liked)
		liked, err = repos.Movie.AddLiker(ctx, "the-matrix", "u1")
		require.NoError(t, err)
		require.False(t, liked)

		liked, err = repos.Movie.AddLiker(ctx, "new-movie", "u1")
		require.NoError(t, err)
		require.True(t, liked)

		removed, err := repos.Movie.RemoveLiker(ctx, "the-matrix", "u1")
		require.NoError(t, err)
		require.True(t, removed)
		removed, err = repos.Movie.RemoveLiker(ctx, "the-matrix", "u1")
		require.NoError(t, err)
		require.False(t, removed)

		top, err := repos.Movie.Top(ctx, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		require.Equal(t, "the-matrix", top[0].Slug)
	})
}

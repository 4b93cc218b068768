package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestBase_FindOne_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "email" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByEmail(context.Background(), "missing@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_FindOne_ExpandRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role_id"}).
			AddRow("u1", "Alice", "a@x.com", "r1"))
	mock.ExpectQuery(`SELECT .* FROM "roles" WHERE "roles"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("r1", model.RoleAdmin))

	user, err := repo.FindOneByID(context.Background(), "u1", FindOptions{
		Projection: query.Exclude("password"),
		Expand:     []string{"Role"},
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user.Email)
	require.NotNil(t, user.Role)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_FindOne_UnknownRelation(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewMovieRepository(db)

	_, err := repo.FindOneByID(context.Background(), "m1", FindOptions{Expand: []string{"Likers"}})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidationFailed))
}

func TestBase_FindOne_StoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindOneByID(context.Background(), "u1", FindOptions{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeDocumentFailFind))
}

func TestBase_FindMany_PagingAndSort(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "is_deleted" = \$1 ORDER BY "created_at" DESC LIMIT (10|\$\d) OFFSET (20|\$\d)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow("u1", "a@x.com").
			AddRow("u2", "b@x.com"))

	users, err := repo.FindMany(context.Background(), query.Where(query.Eq("is_deleted", false)), ListOptions{
		Sort:   []query.Sort{{Field: "created_at", Desc: true}},
		Limit:  10,
		Offset: 20,
	})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_FindMany_Operators(t *testing.T) {
	tests := []struct {
		name   string
		filter query.Filter
		sql    string
	}{
		{
			name:   "contains",
			filter: query.Where(query.Condition{Field: "name", Op: query.OpContains, Value: "ali"}),
			sql:    `SELECT \* FROM "users" WHERE "name" ILIKE \$1`,
		},
		{
			name:   "in",
			filter: query.Where(query.Condition{Field: "email", Op: query.OpIn, Value: []any{"a@x.com", "b@x.com"}}),
			sql:    `SELECT \* FROM "users" WHERE "email" IN \(\$1,\$2\)`,
		},
		{
			name: "range",
			filter: query.Where(
				query.Condition{Field: "age", Op: query.OpGte, Value: int64(18)},
				query.Condition{Field: "created_at", Op: query.OpLt, Value: time.Now()},
			),
			sql: `SELECT \* FROM "users" WHERE "age" >= \$1 AND "created_at" < \$2`,
		},
		{
			name:   "not equal",
			filter: query.Where(query.Condition{Field: "name", Op: query.OpNe, Value: "bob"}),
			sql:    `SELECT \* FROM "users" WHERE "name" <> \$1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(tt.sql).WillReturnRows(sqlmock.NewRows([]string{"id"}))

			users, err := repo.FindMany(context.Background(), tt.filter, ListOptions{})
			require.NoError(t, err)
			assert.Empty(t, users)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBase_Create(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "success",
			wantErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "duplicate email",
			dbErr: &pgconn.PgError{Code: "23505"},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrDuplicateKey)
			},
		},
		{
			name:  "store failure",
			dbErr: errors.New("disk full"),
			wantErr: func(t *testing.T, err error) {
				assert.True(t, apperr.HasCode(err, apperr.CodeDocumentFailCreate))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			exp := mock.ExpectExec(`INSERT INTO "users"`)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			user := model.CreateUserInput{Email: "a@x.com", Name: "A", Password: "hash"}.NewRecord("u1")
			tt.wantErr(t, repo.Create(context.Background(), user))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBase_UpdateOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET .* WHERE "id" = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := repo.UpdateOne(context.Background(), query.Where(query.Eq("id", "u1")), map[string]any{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Modified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_UpdateOne_NoChanges(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	res, err := repo.UpdateOne(context.Background(), query.Where(query.Eq("id", "u1")), map[string]any{})
	require.NoError(t, err)
	assert.Zero(t, res.Modified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBase_UpdateOne_RequiresFilter(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.UpdateOne(context.Background(), query.Filter{}, map[string]any{"name": "B"})
	assert.True(t, apperr.HasCode(err, apperr.CodeDocumentFailUpdate))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"devconnector/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID_Mock(t *testing.T) {
	tests := []struct {
		name         string
		userID       uint
		mockBehavior func(mock sqlmock.Sqlmock)
		expected     *models.User
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "email", "avatar"}).
					AddRow(1, "Alice", "a@x.com", "//www.gravatar.com/avatar/x")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expected: &models.User{ID: 1, Name: "Alice", Email: "a@x.com", Avatar: "//www.gravatar.com/avatar/x"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Driver Error",
			userID: 2,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
					WillReturnError(errors.New("connection refused"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewUserRepository(db, nil)
			tt.mockBehavior(mock)

			user, err := repo.GetByID(context.Background(), tt.userID)
			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, &models.AppError{Code: tt.expectedCode})
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_DeleteWithContent_Mock(t *testing.T) {
	t.Run("commits after all three deletes", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE user_id = $1`)).
			WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles" WHERE user_id = $1`)).
			WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "users"."id" = $1`)).
			WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteWithContent(context.Background(), 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the user delete fails", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.DeleteWithContent(context.Background(), 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, &models.AppError{Code: models.CodeInternal})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the user is missing", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db, nil)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteWithContent(context.Background(), 5)
		assert.ErrorIs(t, err, &models.AppError{Code: models.CodeNotFound})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

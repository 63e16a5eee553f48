package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"go-marketplace/internal/model"
)

func TestProductRepositoryFindHeartedByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM hearts h`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "description", "created_at", "image_url", "categories"}).
			AddRow(int64(11), "Cats", int64(3000), "cat faces", created, "https://cdn/cat-1.png", "animal,face").
			AddRow(int64(12), "Roads", int64(1500), "", created, "", ""))

	products, err := repo.FindHeartedByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, model.HeartDataProduct{
		ProductID: 11, Title: "Cats", Price: 3000, Description: "cat faces", CreatedAt: created,
		ImageURL: "https://cdn/cat-1.png", CategoriesName: []string{"animal", "face"},
	}, products[0])
	require.Empty(t, products[1].CategoriesName)
	require.NotNil(t, products[1].CategoriesName)
}

func TestProductRepositoryAddHeart(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate", err: &pgconn.PgError{Code: pgUniqueViolation}, want: model.ErrDuplicatedHeart},
		{name: "unknown product", err: &pgconn.PgError{Code: pgForeignKeyViolation}, want: model.ErrNotFoundDataProduct},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewProductRepository(db)

			mock.ExpectQuery(`INSERT INTO hearts`).
				WithArgs(int64(1), int64(2), sqlmock.AnyArg()).
				WillReturnError(tc.err)

			_, err := repo.AddHeart(context.Background(), 1, 2)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("inserted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProductRepository(db)

		mock.ExpectQuery(`INSERT INTO hearts`).
			WithArgs(int64(1), int64(2), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(40)))

		heart, err := repo.AddHeart(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Equal(t, int64(40), heart.ID)
	})
}

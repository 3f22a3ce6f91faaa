package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_Create_DuplicateBookingIsConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "reviews_booking_id_key"})

	at := time.Now()
	err = NewReviewRepository(mock).Create(context.Background(), &model.Review{
		ID: "r-1", BookingID: "b-1", UserID: "client-1", Rating: 5, CreatedAt: at, UpdatedAt: at,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "booking already reviewed")
}

func TestReviewRepository_FindByBookingID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	comment := "great"
	rows := pgxmock.NewRows([]string{"id", "booking_id", "user_id", "rating", "comment", "created_at", "updated_at"}).
		AddRow("r-1", "b-1", "client-1", 4, &comment, at, at)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE booking_id = $1")).WithArgs("b-1").WillReturnRows(rows)

	got, err := NewReviewRepository(mock).FindByBookingID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "great", *got.Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindByBookingID_MalformedID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE booking_id = $1")).
		WithArgs("abc").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	got, err := NewReviewRepository(mock).FindByBookingID(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "app", Password: "pw", Name: "marketplace", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=marketplace sslmode=disable", cfg.DSN())
}

func TestAutoMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, AutoMigrate(context.Background(), mock, zap.NewNop()))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))
	err = AutoMigrate(context.Background(), mock, zap.NewNop())
	assert.ErrorContains(t, err, "unable to apply migrations")

	assert.NoError(t, mock.ExpectationsWereMet())
}

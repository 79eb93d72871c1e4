package checkers

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresChecker(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	c := NewPostgresChecker(mock)
	assert.Equal(t, "postgres", c.Name())

	mock.ExpectPing()
	assert.NoError(t, c.Check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.EqualError(t, c.Check(context.Background()), "down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

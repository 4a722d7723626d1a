package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWithRetries_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := WithRetries(func() error {
		calls++
		return nil
	}, 3, func(error) bool { return true })
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := WithRetries(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3, func(error) bool { return true })
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetries_NonRetryableReturnsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := WithRetries(func() error {
		calls++
		return fatal
	}, 3, func(error) bool { return false })
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_Exhausted(t *testing.T) {
	transient := errors.New("transient")
	calls := 0
	err := WithRetries(func() error {
		calls++
		return transient
	}, 2, func(error) bool { return true })
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestIsMongoDuplicateKeyError(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}},
	}
	assert.True(t, IsMongoDuplicateKeyError(dup))

	other := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 2, Message: "bad value"}},
	}
	assert.False(t, IsMongoDuplicateKeyError(other))
	assert.False(t, IsMongoDuplicateKeyError(errors.New("plain")))
	assert.False(t, IsMongoDuplicateKeyError(nil))
}

func TestIsTransientError(t *testing.T) {
	assert.False(t, IsTransientError(nil))
	assert.False(t, IsTransientError(context.Canceled))
	assert.False(t, IsTransientError(context.DeadlineExceeded))
	assert.False(t, IsTransientError(errors.New("plain")))
}

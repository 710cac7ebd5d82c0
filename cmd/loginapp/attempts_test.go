package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptCounter(t *testing.T) {
	c := newAttemptCounter(3)
	assert.False(t, c.Exhausted())
	assert.Equal(t, 3, c.Remaining())

	assert.Equal(t, 2, c.Fail())
	assert.Equal(t, 1, c.Fail())
	assert.False(t, c.Exhausted())
	assert.Equal(t, 0, c.Fail())
	assert.True(t, c.Exhausted())

	assert.Equal(t, 0, c.Fail(), "remaining never goes negative")

	c.Reset()
	assert.False(t, c.Exhausted())
	assert.Equal(t, 3, c.Remaining())
}

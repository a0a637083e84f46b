package cron

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCronScheduler(t *testing.T) {
	_, err := NewCronScheduler("Not/AZone")
	assert.NotNil(t, err)

	scheduler, err := NewCronScheduler("America/Toronto")
	require.Nil(t, err)
	assert.NotNil(t, scheduler)
}

func TestRegisterAndPerform(t *testing.T) {
	scheduler, err := NewCronScheduler("UTC")
	require.Nil(t, err)

	runs := 0
	require.Nil(t, scheduler.Register("count", func() error {
		runs++
		return nil
	}))

	assert.NotNil(t, scheduler.Register("count", func() error { return nil }), "duplicate names are rejected")

	require.Nil(t, scheduler.Perform("count"))
	assert.Equal(t, 1, runs)

	assert.NotNil(t, scheduler.Perform("missing"))

	require.Nil(t, scheduler.Register("broken", func() error { return errors.New("boom") }))
	assert.NotNil(t, scheduler.Perform("broken"))
}

func TestPeriodicallyPerform(t *testing.T) {
	scheduler, err := NewCronScheduler("UTC")
	require.Nil(t, err)

	require.Nil(t, scheduler.Register("noop", func() error { return nil }))

	assert.NotNil(t, scheduler.PeriodicallyPerform("0 * * * *", "missing"))
	assert.Nil(t, scheduler.PeriodicallyPerform("0 * * * *", "noop"))
}

package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_ReturnsResultWhenFastEnough(t *testing.T) {
	v, ok := Run(context.Background(), 50*time.Millisecond, func() string {
		return "done"
	})
	assert.True(t, ok)
	assert.Equal(t, "done", v)
}

func TestRun_ReturnsFalseOnTimeout(t *testing.T) {
	v, ok := Run(context.Background(), 10*time.Millisecond, func() string {
		time.Sleep(100 * time.Millisecond)
		return "too late"
	})
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestRun_RespectsParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := Run(ctx, DefaultDeadline, func() string {
		return "should not matter"
	})
	assert.False(t, ok)
}

type addressResult struct {
	Province, District, Ward string
}

func TestOvertime_BuildsSentinelShape(t *testing.T) {
	got := Overtime(func(status string) addressResult {
		return addressResult{Province: status, District: "", Ward: ""}
	})
	assert.Equal(t, addressResult{Province: Sentinel}, got)
}

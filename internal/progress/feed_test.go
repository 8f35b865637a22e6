package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_PublishAndClose(t *testing.T) {
	f := NewFeed(4)
	sub := f.Subscribe()
	require.Equal(t, 1, f.Subscribers())

	f.Publish(Update{JobID: "a", Stage: StageProcessing, Percent: 10})
	u := <-sub.C()
	assert.Equal(t, 10.0, u.Percent)

	sub.Close()
	sub.Close() // idempotent
	assert.Equal(t, 0, f.Subscribers())

	// updates after close are discarded, not delivered and not panicking
	f.Publish(Update{JobID: "a", Stage: StageProcessing, Percent: 20})
	_, open := <-sub.C()
	assert.False(t, open)
}

func TestFeed_SlowSubscriberKeepsTerminal(t *testing.T) {
	f := NewFeed(2)
	sub := f.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		f.Publish(Update{Stage: StageProcessing, Percent: float64(i * 10)})
	}
	f.Result(Result{JobID: "j", OutputPath: "/out/x.mp4"})

	var got []Update
	for len(sub.C()) > 0 {
		got = append(got, <-sub.C())
	}
	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Percent)
	assert.Equal(t, StageCompleted, got[1].Stage)
	assert.Equal(t, "/out/x.mp4", got[1].Message)
}

func TestFeed_ResultError(t *testing.T) {
	f := NewFeed(0)
	sub := f.Subscribe()
	defer sub.Close()

	f.Result(Result{JobID: "j", Err: errors.New("boom")})
	u := <-sub.C()
	assert.Equal(t, StageError, u.Stage)
	assert.Equal(t, "boom", u.Message)
	assert.True(t, u.Stage.Terminal())
}

func TestFeed_MultipleSubscribers(t *testing.T) {
	f := NewFeed(8)
	a, b := f.Subscribe(), f.Subscribe()
	defer a.Close()
	f.Publish(Update{Percent: 1})
	assert.Equal(t, 1.0, (<-a.C()).Percent)
	assert.Equal(t, 1.0, (<-b.C()).Percent)
	b.Close()
	f.Publish(Update{Percent: 2})
	assert.Equal(t, 2.0, (<-a.C()).Percent)
}

func TestMonotonic(t *testing.T) {
	var m Monotonic
	assert.Equal(t, -1.0, m.Observe(-1))
	assert.Equal(t, 10.0, m.Observe(10))
	assert.Equal(t, 10.0, m.Observe(5))
	assert.Equal(t, 10.0, m.Observe(-1))
	assert.Equal(t, 40.0, m.Observe(40))
	assert.Equal(t, 100.0, m.Observe(130))
	m.Reset()
	assert.Equal(t, 3.0, m.Observe(3))
}

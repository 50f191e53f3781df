package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepConvergesWithoutOvershoot(t *testing.T) {
	eases := []float64{0.05, 0.08, 0.1, 0.3, 0.9}

	for _, ease := range eases {
		s := State{Current: 500, Ease: ease}

		prev := s.Rounded
		converged := false
		for i := 0; i < 2000; i++ {
			s = Step(s)

			assert.GreaterOrEqual(t, s.Rounded, prev, "ease=%v tick=%d: must approach monotonically", ease, i)
			assert.LessOrEqual(t, s.Rounded, s.Current, "ease=%v tick=%d: must never overshoot", ease, i)
			prev = s.Rounded

			if s.Current-s.Rounded < 0.01 {
				converged = true
				break
			}
		}
		assert.True(t, converged, "ease=%v: did not converge within bounded ticks", ease)
	}
}

func TestStepConvergesDownward(t *testing.T) {
	s := State{Current: 0, Last: 300, Rounded: 300, Ease: 0.08}

	prev := s.Rounded
	for i := 0; i < 2000; i++ {
		s = Step(s)
		assert.LessOrEqual(t, s.Rounded, prev)
		assert.GreaterOrEqual(t, s.Rounded, 0.0)
		prev = s.Rounded
	}
	assert.InDelta(t, 0, s.Rounded, 0.01)
}

func TestSetTargetClampsToContent(t *testing.T) {
	c := New(0.08)
	c.Attach(100, 20)

	c.SetTarget(500)
	assert.Equal(t, float64(80), c.Target())

	c.SetTarget(-10)
	assert.Equal(t, float64(0), c.Target())
}

func TestResizeSnapsWithoutEasing(t *testing.T) {
	c := New(0.08)
	c.Attach(200, 20)
	c.SetTarget(120)

	// One frame of easing leaves the interpolated value far behind.
	cmd := c.Update(FrameMsg{At: time.Now(), Gen: 0})
	require.NotNil(t, cmd)
	assert.Less(t, c.Offset(), 120)

	// Resize re-applies the exact position immediately.
	c.Resize(200, 20)
	assert.Equal(t, 120, c.Offset())
	assert.True(t, c.Settled())
}

func TestResizeClampsStaleOffset(t *testing.T) {
	c := New(0.08)
	c.Attach(200, 20)
	c.SetTarget(150)

	// Content shrank below the current offset.
	c.Resize(60, 20)
	assert.Equal(t, float64(40), c.Target())
	assert.Equal(t, 40, c.Offset())
}

func TestAttachWithoutContentFallsBackToNative(t *testing.T) {
	c := New(0.08)
	c.Attach(0, 20)

	require.True(t, c.Native())
	assert.True(t, c.Active())
	assert.Nil(t, c.Start())

	// Native mode applies offsets directly, no interpolation lag.
	c.SetTarget(35)
	assert.Equal(t, 35, c.Offset())
}

func TestTeardownStopsFrameLoop(t *testing.T) {
	c := New(0.08)
	c.Attach(200, 20)
	c.SetTarget(50)

	cmd := c.Update(FrameMsg{Gen: 0})
	require.NotNil(t, cmd)

	c.Teardown()
	assert.Nil(t, c.Update(FrameMsg{Gen: 0}), "stale-generation frames must be dropped")
	assert.Equal(t, 0, c.Offset())
}

func TestDerivedEffects(t *testing.T) {
	c := New(0.08)
	c.Attach(400, 40)

	c.SetTarget(0)
	c.Refresh()
	assert.False(t, c.HeaderHidden())
	assert.Equal(t, float64(0), c.Zoom())

	c.SetTarget(360)
	c.Refresh()
	assert.True(t, c.HeaderHidden())
	assert.InDelta(t, 1.0, c.Zoom(), 0.001)

	c.SetTarget(180)
	c.Refresh()
	assert.InDelta(t, 0.5, c.Zoom(), 0.001)
}

func TestInvalidEaseFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultEase, New(0).State().Ease)
	assert.Equal(t, DefaultEase, New(1.5).State().Ease)
	assert.Equal(t, 0.1, New(0.1).State().Ease)
}

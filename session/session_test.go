package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSession_IDsAreUnique(t *testing.T) {
	a := New(zap.NewNop())
	b := New(zap.NewNop())
	require.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_ValueRoundTrip(t *testing.T) {
	s := New(zap.NewNop())

	_, ok := s.Value("slot")
	assert.False(t, ok)

	s.SetValue("slot", 42)
	v, ok := s.Value("slot")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestSession_EndRunsCallbacksInOrder(t *testing.T) {
	s := New(zap.NewNop())

	var order []int
	s.OnEnd(func() { order = append(order, 1) })
	s.OnEnd(func() { order = append(order, 2) })

	s.End()
	assert.Equal(t, []int{1, 2}, order)
	assert.True(t, s.Ended())

	// End is idempotent.
	s.End()
	assert.Equal(t, []int{1, 2}, order)
}

func TestSession_OnEndAfterEndRunsImmediately(t *testing.T) {
	s := New(zap.NewNop())
	s.End()

	ran := false
	s.OnEnd(func() { ran = true })
	assert.True(t, ran)
}

func TestSession_SetValueAfterEndIsDropped(t *testing.T) {
	s := New(zap.NewNop())
	s.End()

	s.SetValue("slot", "late")
	_, ok := s.Value("slot")
	assert.False(t, ok)
}

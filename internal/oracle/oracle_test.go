package oracle_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/randomizedcoder/crossdomain-fifo/internal/oracle"
	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
)

func requireMismatch(t *testing.T, err error, side queue.Side, check oracle.Check, step uint64) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, oracle.ErrMismatch), "expected ErrMismatch, got %v", err)
	var m *oracle.Mismatch
	require.True(t, errors.As(err, &m))
	assert.Equal(t, side, m.Side)
	assert.Equal(t, check, m.Check)
	assert.Equal(t, step, m.Step)
}

func TestProducerChecker(t *testing.T) {
	var c oracle.ProducerChecker

	assert.NoError(t, c.Check(1, false, false, false))
	assert.NoError(t, c.Check(2, false, true, true))
	requireMismatch(t, c.Check(3, false, true, false), queue.ProducerSide, oracle.CheckFullFlag, 3)

	// Reset step must report not-full
	requireMismatch(t, c.Check(4, true, true, false), queue.ProducerSide, oracle.CheckResetRecovery, 4)
	assert.NoError(t, c.Check(5, true, false, true), "reset compares against the reset value only")

	// One graced step, then hard checks again
	assert.NoError(t, c.Check(6, false, true, false))
	requireMismatch(t, c.Check(7, false, true, false), queue.ProducerSide, oracle.CheckFullFlag, 7)
}

func TestConsumerChecker(t *testing.T) {
	var c oracle.ConsumerChecker[int]

	assert.NoError(t, c.Check(1, false, true, true, true, 0, 0))
	requireMismatch(t, c.Check(2, false, false, false, true, 0, 0), queue.ConsumerSide, oracle.CheckEmptyFlag, 2)
	requireMismatch(t, c.Check(3, false, true, false, false, 4, 5), queue.ConsumerSide, oracle.CheckDataValue, 3)
	assert.NoError(t, c.Check(4, false, false, false, false, 4, 5), "values compared only on pop")

	requireMismatch(t, c.Check(5, true, false, false, true, 0, 0), queue.ConsumerSide, oracle.CheckResetRecovery, 5)
	assert.NoError(t, c.Check(6, false, true, false, true, 1, 2))
	assert.Error(t, c.Check(7, false, true, false, true, 1, 2))
}

func TestMismatch_Error(t *testing.T) {
	err := &oracle.Mismatch{Side: queue.ConsumerSide, Check: oracle.CheckDataValue, Step: 42, Got: 1, Want: 2}
	assert.Equal(t, "oracle: data-value check failed on consumer side at step 42: got 1, want 2", err.Error())

	wrapped := fmt.Errorf("run: %w", err)
	assert.ErrorIs(t, wrapped, oracle.ErrMismatch)
}

func TestCheck_String(t *testing.T) {
	assert.Equal(t, "reset-recovery", oracle.CheckResetRecovery.String())
	assert.Equal(t, "full-flag", oracle.CheckFullFlag.String())
	assert.Equal(t, "empty-flag", oracle.CheckEmptyFlag.String())
	assert.Equal(t, "data-value", oracle.CheckDataValue.String())
	assert.Equal(t, "scoreboard", oracle.CheckScoreboard.String())
}

func TestScoreboard(t *testing.T) {
	s := oracle.NewScoreboard[string]()
	require.True(t, s.Armed())

	s.Pushed("A")
	s.Pushed("B")
	assert.Equal(t, 2, s.Outstanding())
	assert.NoError(t, s.Popped(1, "A"))
	requireMismatch(t, s.Popped(2, "C"), queue.ConsumerSide, oracle.CheckScoreboard, 2)
	requireMismatch(t, s.Popped(3, "D"), queue.ConsumerSide, oracle.CheckScoreboard, 3)

	s.Pushed("E")
	s.Disarm()
	assert.False(t, s.Armed())
	assert.Zero(t, s.Outstanding())
	assert.NoError(t, s.Popped(4, "anything"))

	pushed, popped := s.Counts()
	assert.Equal(t, uint64(3), pushed)
	assert.Equal(t, uint64(4), popped)
}

// TestScoreboard_Property checks the scoreboard against a slice model.
func TestScoreboard_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := oracle.NewScoreboard[int]()
		var model []int
		ops := rapid.SliceOfN(rapid.IntRange(-100, 100), 1, 200).Draw(t, "ops")
		for i, op := range ops {
			if op >= 0 {
				s.Pushed(op)
				model = append(model, op)
				continue
			}
			if len(model) == 0 {
				if s.Popped(uint64(i), op) == nil {
					t.Fatalf("pop from empty scoreboard accepted")
				}
				continue
			}
			if err := s.Popped(uint64(i), model[0]); err != nil {
				t.Fatalf("in-order pop rejected: %v", err)
			}
			model = model[1:]
		}
		if s.Outstanding() != len(model) {
			t.Fatalf("outstanding %d, model %d", s.Outstanding(), len(model))
		}
	})
}

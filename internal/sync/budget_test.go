package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetDefaults(t *testing.T) {
	b := NewBudget(Limits{})

	assert.False(t, b.ShouldAbort())
	assert.False(t, b.WouldExceedCreates())
	assert.Equal(t, 150, b.RemainingCreates())
}

func TestBudgetProcessedCap(t *testing.T) {
	b := NewBudget(Limits{MaxProcessed: 3, MaxCreated: 100})

	for i := 0; i < 3; i++ {
		assert.False(t, b.ShouldAbort(), "processed %d of 3", i)
		b.RecordProcessed()
	}

	assert.True(t, b.ShouldAbort())
	assert.Equal(t, 3, b.Processed())
	assert.False(t, b.WouldExceedCreates(), "create budget is independent")
}

func TestBudgetCreatedCap(t *testing.T) {
	b := NewBudget(Limits{MaxProcessed: 100, MaxCreated: 2})

	b.RecordCreated()
	assert.False(t, b.WouldExceedCreates())
	assert.Equal(t, 1, b.RemainingCreates())

	b.RecordCreated()
	assert.True(t, b.WouldExceedCreates())
	assert.True(t, b.ShouldAbort())
	assert.Equal(t, 0, b.RemainingCreates())
}

func TestBudgetRemainingNeverNegative(t *testing.T) {
	b := NewBudget(Limits{MaxProcessed: 10, MaxCreated: 1})
	b.RecordCreated()
	b.RecordCreated()

	assert.Equal(t, 0, b.RemainingCreates())
}

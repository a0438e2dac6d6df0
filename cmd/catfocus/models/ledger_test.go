package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_Spend(t *testing.T) {
	l := NewLedger(1, 2)

	assert.True(t, l.SpendTreats(1))
	assert.False(t, l.SpendTreats(1))
	assert.Equal(t, 0, l.Treats())

	assert.False(t, l.SpendToys(3), "never spends more than the balance")
	assert.Equal(t, 2, l.Toys())
	assert.False(t, l.SpendToys(0))
	assert.False(t, l.SpendToys(-1))
	assert.Equal(t, 2, l.Toys())
}

func TestLedger_Earn(t *testing.T) {
	l := NewLedger(-4, 0)
	assert.Equal(t, 0, l.Treats())

	l.Earn(FocusTreatReward, FocusToyReward)
	assert.Equal(t, 2, l.Treats())
	assert.Equal(t, 1, l.Toys())

	l.Earn(-5, -5)
	assert.Equal(t, 2, l.Treats())
	assert.Equal(t, 1, l.Toys())
}

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockReplacerShouldReturnError_When_No_Possible_Victim_Is_Found(t *testing.T) {
	poolSize := 32
	r := NewClockReplacer(poolSize)
	v, err := r.ChooseVictim()
	assert.Zero(t, v)
	assert.ErrorIs(t, err, ErrNoVictim)
}

func TestClockReplacer_Should_Not_Choose_Pinned(t *testing.T) {
	poolSize := 32
	r := NewClockReplacer(poolSize)
	for i := 0; i < poolSize; i++ {
		r.Pin(i)
	}
	r.Unpin(poolSize - 1)

	v, err := r.ChooseVictim()
	assert.NoError(t, err)
	assert.Equal(t, poolSize-1, v)
}

func TestClockReplacer_Victim_Leaves_The_Evictable_Set(t *testing.T) {
	r := NewClockReplacer(4)
	r.Unpin(2)

	v, err := r.ChooseVictim()
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Zero(t, r.Size())

	_, err = r.ChooseVictim()
	assert.ErrorIs(t, err, ErrNoVictim)
}

func TestClockReplacer_Should_Give_A_Second_Chance_To_Recently_Pinned_Frames(t *testing.T) {
	r := NewClockReplacer(2)

	// frame 0 was pinned recently, frame 1 never was. the hand should skip 0 once.
	r.Pin(0)
	r.Unpin(0)
	r.Unpin(1)

	v, err := r.ChooseVictim()
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestClockReplacer_Size_Should_Count_Evictable_Frames(t *testing.T) {
	r := NewClockReplacer(8)
	for i := 0; i < 8; i++ {
		r.Unpin(i)
	}
	assert.Equal(t, 8, r.Size())

	r.Pin(0)
	assert.Equal(t, 7, r.Size())
}

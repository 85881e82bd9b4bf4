package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagePosition(t *testing.T) {
	tests := []struct {
		stage    Stage
		position int
	}{
		{StageOrderReceived, 1},
		{StagePOUploaded, 2},
		{StageMaterialAllocation, 3},
		{StagePrintingInProgress, 4},
		{StageQualityCheck, 5},
		{StageDispatched, 6},
		{Stage("packing"), 0},
		{Stage(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.position, tt.stage.Position())
		})
	}
}

func TestStageAtPosition(t *testing.T) {
	for i, want := range StageSequence {
		stage, err := StageAtPosition(i + 1)
		require.NoError(t, err)
		assert.Equal(t, want, stage)
	}

	_, err := StageAtPosition(0)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = StageAtPosition(7)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestStageLabel(t *testing.T) {
	tests := []struct {
		stage Stage
		label string
	}{
		{StageOrderReceived, "Order Received"},
		{StagePOUploaded, "PO Uploaded"},
		{StageMaterialAllocation, "Material Allocation"},
		{StagePrintingInProgress, "Printing in Progress"},
		{StageQualityCheck, "Quality Check"},
		{StageDispatched, "Dispatched"},
		{Stage("unknown_stage"), "unknown_stage"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.stage.Label())
	}
}

func TestStageNext(t *testing.T) {
	next, ok := StageOrderReceived.Next()
	require.True(t, ok)
	assert.Equal(t, StagePOUploaded, next)

	next, ok = StageQualityCheck.Next()
	require.True(t, ok)
	assert.Equal(t, StageDispatched, next)

	_, ok = StageDispatched.Next()
	assert.False(t, ok)

	_, ok = Stage("bogus").Next()
	assert.False(t, ok)
}

func TestStageStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, StageStatus("done").IsValid())
	assert.False(t, StageStatus("").IsValid())
}

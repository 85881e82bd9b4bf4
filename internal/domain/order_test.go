package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testRecordID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
}

func newTestOrder(t *testing.T) Order {
	t.Helper()
	order, err := NewOrder("ORD-test0001", "Acme Prints", "user-1", testRecordID(), testClock)
	require.NoError(t, err)
	return order
}

// orderAt returns a test order advanced so that currentStage is the given
// stage, with every earlier stage (and po_uploaded) completed.
func orderAt(t *testing.T, stage Stage) Order {
	t.Helper()
	order := newTestOrder(t)
	now := testClock
	for order.CurrentStage != stage {
		now = now.Add(time.Minute)
		var err error
		order, err = order.SetStageStatus(order.CurrentStage, StatusCompleted, now)
		require.NoError(t, err)
	}
	return order
}

func TestNewOrder(t *testing.T) {
	order := newTestOrder(t)

	assert.Equal(t, "ORD-test0001", order.ID)
	assert.Equal(t, "Acme Prints", order.ClientName)
	assert.Equal(t, StageOrderReceived, order.CurrentStage)
	assert.Equal(t, "user-1", order.CreatedBy)
	assert.Equal(t, testClock, order.Created)
	assert.Equal(t, testClock, order.LastUpdated)

	first, err := order.StageRecordFor(StageOrderReceived)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, first.Status)

	for _, stage := range StageSequence[1:] {
		record, err := order.StageRecordFor(stage)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, record.Status, "stage %s", stage)
		assert.Nil(t, record.CompletedAt)
		assert.NotEmpty(t, record.ID)
		assert.Empty(t, record.Files)
	}
}

func TestNewOrderRequiresClientName(t *testing.T) {
	_, err := NewOrder("ORD-test0002", "", "user-1", testRecordID(), testClock)
	assert.ErrorIs(t, err, ErrClientNameRequired)
}

func TestCanEnter(t *testing.T) {
	tests := []struct {
		name    string
		current Stage
		poDone  bool
		target  Stage
		want    bool
	}{
		{"current stage is always enterable", StageOrderReceived, false, StageOrderReceived, true},
		{"next stage po_uploaded needs no gate", StageOrderReceived, false, StagePOUploaded, true},
		{"skip two ahead", StageOrderReceived, false, StageMaterialAllocation, false},
		{"skip to terminal", StageOrderReceived, true, StageDispatched, false},
		{"next stage blocked without PO", StagePOUploaded, false, StageMaterialAllocation, false},
		{"next stage open with PO", StagePOUploaded, true, StageMaterialAllocation, true},
		{"later gate also blocked without PO", StagePrintingInProgress, false, StageQualityCheck, false},
		{"later gate open with PO", StagePrintingInProgress, true, StageQualityCheck, true},
		{"stage behind current", StageQualityCheck, true, StagePOUploaded, false},
		{"invalid stage", StageOrderReceived, true, Stage("packing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newTestOrder(t)
			order.CurrentStage = tt.current
			if tt.poDone {
				order.Stages[StagePOUploaded.Position()-1].Status = StatusCompleted
			}

			assert.Equal(t, tt.want, order.CanEnter(tt.target))
		})
	}
}

func TestCanEnterNeverSkipsAhead(t *testing.T) {
	order := newTestOrder(t)
	order.Stages[StagePOUploaded.Position()-1].Status = StatusCompleted

	for _, current := range StageSequence {
		order.CurrentStage = current
		for _, target := range StageSequence {
			if target.Position() > current.Position()+1 {
				assert.False(t, order.CanEnter(target),
					"current=%s target=%s", current, target)
			}
		}
	}
}

func TestCanEnterPOGateBlocksEverythingDownstream(t *testing.T) {
	order := newTestOrder(t)

	for _, current := range StageSequence {
		order.CurrentStage = current
		for _, target := range StageSequence {
			if target == StageOrderReceived || target == StagePOUploaded || target == current {
				continue
			}
			assert.False(t, order.CanEnter(target),
				"current=%s target=%s should be gated on PO", current, target)
		}
	}
}

func TestSetStageStatusCompletesAndAdvances(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)

	updated, err := order.SetStageStatus(StageOrderReceived, StatusCompleted, t1)
	require.NoError(t, err)

	assert.Equal(t, StagePOUploaded, updated.CurrentStage)
	assert.Equal(t, t1, updated.LastUpdated)

	record, err := updated.StageRecordFor(StageOrderReceived)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)
	assert.Equal(t, t1, *record.CompletedAt)
	assert.Equal(t, t1, record.UpdatedAt)

	// receiver untouched
	assert.Equal(t, StageOrderReceived, order.CurrentStage)
	original, _ := order.StageRecordFor(StageOrderReceived)
	assert.Equal(t, StatusInProgress, original.Status)
}

func TestSetStageStatusWithoutCompletionDoesNotAdvance(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)

	updated, err := order.SetStageStatus(StageOrderReceived, StatusInProgress, t1)
	require.NoError(t, err)

	assert.Equal(t, StageOrderReceived, updated.CurrentStage)
	assert.Equal(t, testClock, updated.LastUpdated)

	record, _ := updated.StageRecordFor(StageOrderReceived)
	assert.Nil(t, record.CompletedAt)
	assert.Equal(t, t1, record.UpdatedAt)
}

func TestSetStageStatusTerminalStageStaysPut(t *testing.T) {
	order := orderAt(t, StageDispatched)
	t1 := testClock.Add(24 * time.Hour)

	updated, err := order.SetStageStatus(StageDispatched, StatusCompleted, t1)
	require.NoError(t, err)

	assert.Equal(t, StageDispatched, updated.CurrentStage)
	record, _ := updated.StageRecordFor(StageDispatched)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, t1, record.UpdatedAt)

	// only advancement stamps the order-level timestamp
	assert.Equal(t, order.LastUpdated, updated.LastUpdated)
}

func TestSetStageStatusIdempotentCompletion(t *testing.T) {
	order := orderAt(t, StagePOUploaded)
	t1 := testClock.Add(2 * time.Hour)

	once, err := order.SetStageStatus(StagePOUploaded, StatusCompleted, t1)
	require.NoError(t, err)

	// completing an already-completed non-current stage is rejected by the
	// reachability guard, so re-complete via the same arguments on a fresh
	// copy to check the record is identical
	twice, err := order.SetStageStatus(StagePOUploaded, StatusCompleted, t1)
	require.NoError(t, err)

	onceRecord, _ := once.StageRecordFor(StagePOUploaded)
	twiceRecord, _ := twice.StageRecordFor(StagePOUploaded)
	assert.Equal(t, onceRecord, twiceRecord)
}

func TestSetStageStatusRejectsUnreachableStage(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)

	_, err := order.SetStageStatus(StageQualityCheck, StatusInProgress, t1)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	// stage behind the current one is also unreachable
	advanced := orderAt(t, StageMaterialAllocation)
	_, err = advanced.SetStageStatus(StageOrderReceived, StatusInProgress, t1)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestSetStageStatusRejectsInvalidInput(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)

	_, err := order.SetStageStatus(Stage("packing"), StatusCompleted, t1)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = order.SetStageStatus(StageOrderReceived, StageStatus("done"), t1)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStageStatusRegressionKeepsCompletedAt(t *testing.T) {
	// the terminal stage stays current after completion, so it is the one
	// stage whose record can regress; its completion stamp must survive
	order := orderAt(t, StageDispatched)
	t1 := testClock.Add(24 * time.Hour)
	t2 := testClock.Add(25 * time.Hour)

	completed, err := order.SetStageStatus(StageDispatched, StatusCompleted, t1)
	require.NoError(t, err)

	regressed, err := completed.SetStageStatus(StageDispatched, StatusInProgress, t2)
	require.NoError(t, err)

	record, _ := regressed.StageRecordFor(StageDispatched)
	assert.Equal(t, StatusInProgress, record.Status)
	require.NotNil(t, record.CompletedAt)
	assert.Equal(t, t1, *record.CompletedAt)
	assert.Equal(t, t2, record.UpdatedAt)
}

func TestSaveStageNotes(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)

	updated, err := order.SaveStageNotes(StageQualityCheck, "calibration pending", t1)
	require.NoError(t, err)

	record, _ := updated.StageRecordFor(StageQualityCheck)
	assert.Equal(t, "calibration pending", record.Notes)
	assert.Equal(t, t1, record.UpdatedAt)
	assert.Equal(t, StatusPending, record.Status)
	assert.Nil(t, record.CompletedAt)

	// notes edits never touch the order pointer
	assert.Equal(t, StageOrderReceived, updated.CurrentStage)
	assert.Equal(t, testClock, updated.LastUpdated)

	_, err = order.SaveStageNotes(Stage("packing"), "x", t1)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestAttachStageFile(t *testing.T) {
	order := newTestOrder(t)
	t1 := testClock.Add(time.Hour)
	file := FileRef{
		ID:          "file-1",
		Name:        "po-scan.pdf",
		URL:         "/api/v1/files/file-1",
		ContentType: "application/pdf",
		UploadedAt:  t1,
		UploadedBy:  "user-1",
	}

	updated, err := order.AttachStageFile(StagePOUploaded, file, t1)
	require.NoError(t, err)

	record, _ := updated.StageRecordFor(StagePOUploaded)
	require.Len(t, record.Files, 1)
	assert.Equal(t, file, record.Files[0])
	assert.Equal(t, StatusPending, record.Status)

	// receiver's file list is untouched
	original, _ := order.StageRecordFor(StagePOUploaded)
	assert.Empty(t, original.Files)

	_, err = order.AttachStageFile(Stage("packing"), file, t1)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestPORequiredWarning(t *testing.T) {
	order := newTestOrder(t)

	assert.False(t, order.PORequiredWarning(StageOrderReceived))
	assert.False(t, order.PORequiredWarning(StagePOUploaded))
	assert.True(t, order.PORequiredWarning(StageMaterialAllocation))
	assert.True(t, order.PORequiredWarning(StageQualityCheck))
	assert.True(t, order.PORequiredWarning(StageDispatched))

	order.Stages[StagePOUploaded.Position()-1].Status = StatusCompleted
	for _, stage := range StageSequence {
		assert.False(t, order.PORequiredWarning(stage), "stage %s", stage)
	}
}

func TestFullProgressionScenario(t *testing.T) {
	order := newTestOrder(t)
	now := testClock

	for i, stage := range StageSequence {
		assert.Equal(t, stage, order.CurrentStage, "step %d", i)
		now = now.Add(time.Hour)
		var err error
		order, err = order.SetStageStatus(stage, StatusCompleted, now)
		require.NoError(t, err)
	}

	assert.Equal(t, StageDispatched, order.CurrentStage)
	assert.False(t, order.IsActive())
	for _, stage := range StageSequence {
		record, _ := order.StageRecordFor(stage)
		assert.Equal(t, StatusCompleted, record.Status)
		assert.NotNil(t, record.CompletedAt)
	}
}

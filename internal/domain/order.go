package domain

import "time"

// FileRef is an immutable record of an artifact uploaded against a stage.
// A FileRef belongs to exactly one stage record of one order.
type FileRef struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	URL         string    `bson:"url" json:"url"`
	ContentType string    `bson:"contentType" json:"contentType"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
	UploadedBy  string    `bson:"uploadedBy" json:"uploadedBy"`
}

// StageRecord holds the work done within one stage of one order.
// CompletedAt is stamped the first time the status transitions into
// completed and is never cleared afterwards, even if the status later
// regresses to in_progress.
type StageRecord struct {
	ID          string      `bson:"id" json:"id"`
	Status      StageStatus `bson:"status" json:"status"`
	Notes       string      `bson:"notes" json:"notes"`
	Files       []FileRef   `bson:"files" json:"files"`
	CompletedAt *time.Time  `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// Order is the aggregate root for one customer production job. Stages is a
// fixed-size array indexed by sequence position, so all six stage records
// are always present. Order values are immutable: every mutating operation
// returns a new Order and leaves the receiver untouched.
type Order struct {
	ID           string                  `bson:"orderId" json:"orderId"`
	ClientName   string                  `bson:"clientName" json:"clientName"`
	CurrentStage Stage                   `bson:"currentStage" json:"currentStage"`
	Stages       [StageCount]StageRecord `bson:"stages" json:"stages"`
	Created      time.Time               `bson:"created" json:"created"`
	LastUpdated  time.Time               `bson:"lastUpdated" json:"lastUpdated"`
	CreatedBy    string                  `bson:"createdBy" json:"createdBy"`
}

// NewOrder creates an order with every stage pending except the first,
// which starts in progress.
func NewOrder(orderID, clientName, createdBy string, newRecordID func() string, now time.Time) (Order, error) {
	if clientName == "" {
		return Order{}, ErrClientNameRequired
	}

	order := Order{
		ID:           orderID,
		ClientName:   clientName,
		CurrentStage: StageOrderReceived,
		Created:      now,
		LastUpdated:  now,
		CreatedBy:    createdBy,
	}

	for i := range order.Stages {
		order.Stages[i] = StageRecord{
			ID:        newRecordID(),
			Status:    StatusPending,
			Files:     []FileRef{},
			UpdatedAt: now,
		}
	}
	order.Stages[0].Status = StatusInProgress

	return order, nil
}

// StageRecordFor returns the stage record for the given stage
func (o Order) StageRecordFor(stage Stage) (StageRecord, error) {
	pos := stage.Position()
	if pos == 0 {
		return StageRecord{}, ErrInvalidStage
	}
	return o.Stages[pos-1], nil
}

// CanEnter reports whether work on the target stage may begin. Re-entering
// the current stage is always allowed. Advancing is allowed only to the
// immediately following stage, and only when the purchase order has been
// uploaded and completed; the po_uploaded stage is the gate itself and is
// reachable without that precondition. Stages further ahead, and stages
// behind the current one, are not enterable.
func (o Order) CanEnter(target Stage) bool {
	targetPos := target.Position()
	if targetPos == 0 {
		return false
	}

	if target == o.CurrentStage {
		return true
	}

	if targetPos != o.CurrentStage.Position()+1 {
		return false
	}

	if target != StagePOUploaded && !o.poUploaded() {
		return false
	}

	return true
}

// PORequiredWarning reports whether the stage should carry a "PO Required"
// badge: every stage past po_uploaded shows it until the purchase order
// stage has been completed. Purely informational; CanEnter encodes the
// actual gate.
func (o Order) PORequiredWarning(stage Stage) bool {
	if stage == StageOrderReceived || stage == StagePOUploaded {
		return false
	}
	return !o.poUploaded()
}

// SetStageStatus returns a copy of the order with the stage's status
// replaced. Completing a stage for the first time stamps its CompletedAt,
// and completing the current stage additionally advances the order to the
// next stage in sequence and stamps LastUpdated. Advancement is the only
// writer of LastUpdated, so completing the terminal dispatched stage
// deliberately leaves it untouched; the stage record's own UpdatedAt still
// moves.
func (o Order) SetStageStatus(stage Stage, status StageStatus, now time.Time) (Order, error) {
	pos := stage.Position()
	if pos == 0 {
		return Order{}, ErrInvalidStage
	}
	if !status.IsValid() {
		return Order{}, ErrInvalidStatus
	}
	if !o.CanEnter(stage) {
		return Order{}, ErrTransitionNotAllowed
	}

	record := o.Stages[pos-1]
	completing := status == StatusCompleted && record.Status != StatusCompleted

	record.Status = status
	record.UpdatedAt = now
	if completing {
		completedAt := now
		record.CompletedAt = &completedAt
	}

	updated := o
	updated.Stages[pos-1] = record

	if completing && stage == o.CurrentStage {
		if next, ok := o.CurrentStage.Next(); ok {
			updated.CurrentStage = next
			updated.LastUpdated = now
		}
	}

	return updated, nil
}

// SaveStageNotes returns a copy of the order with the stage's notes
// replaced. Status and CompletedAt are untouched; any in-range stage may
// have its notes edited.
func (o Order) SaveStageNotes(stage Stage, notes string, now time.Time) (Order, error) {
	pos := stage.Position()
	if pos == 0 {
		return Order{}, ErrInvalidStage
	}

	updated := o
	updated.Stages[pos-1].Notes = notes
	updated.Stages[pos-1].UpdatedAt = now

	return updated, nil
}

// AttachStageFile returns a copy of the order with the file appended to
// the stage's file list. The file list is copied so the receiver's slice
// is never shared with the result.
func (o Order) AttachStageFile(stage Stage, file FileRef, now time.Time) (Order, error) {
	pos := stage.Position()
	if pos == 0 {
		return Order{}, ErrInvalidStage
	}

	record := o.Stages[pos-1]
	files := make([]FileRef, 0, len(record.Files)+1)
	files = append(files, record.Files...)
	files = append(files, file)
	record.Files = files
	record.UpdatedAt = now

	updated := o
	updated.Stages[pos-1] = record

	return updated, nil
}

// IsActive reports whether the order has not yet been dispatched
func (o Order) IsActive() bool {
	return o.CurrentStage != StageDispatched
}

func (o Order) poUploaded() bool {
	return o.Stages[StagePOUploaded.Position()-1].Status == StatusCompleted
}

package domain

// Stage represents one step in the production lifecycle of an order
type Stage string

const (
	StageOrderReceived      Stage = "order_received"
	StagePOUploaded         Stage = "po_uploaded"
	StageMaterialAllocation Stage = "material_allocation"
	StagePrintingInProgress Stage = "printing_in_progress"
	StageQualityCheck       Stage = "quality_check"
	StageDispatched         Stage = "dispatched"
)

// StageCount is the number of stages every order moves through
const StageCount = 6

// StageSequence is the fixed production order of the stages. A stage's
// position is derived from its index here, never stored separately.
var StageSequence = [StageCount]Stage{
	StageOrderReceived,
	StagePOUploaded,
	StageMaterialAllocation,
	StagePrintingInProgress,
	StageQualityCheck,
	StageDispatched,
}

var stageLabels = map[Stage]string{
	StageOrderReceived:      "Order Received",
	StagePOUploaded:         "PO Uploaded",
	StageMaterialAllocation: "Material Allocation",
	StagePrintingInProgress: "Printing in Progress",
	StageQualityCheck:       "Quality Check",
	StageDispatched:         "Dispatched",
}

// IsValid checks if the stage is one of the six catalog values
func (s Stage) IsValid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the human-readable name of the stage
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Position returns the 1-based sequence position of the stage, or 0 for
// a value outside the catalog
func (s Stage) Position() int {
	for i, stage := range StageSequence {
		if stage == s {
			return i + 1
		}
	}
	return 0
}

// Next returns the stage immediately after s, and false when s is the
// terminal stage or not a catalog value
func (s Stage) Next() (Stage, bool) {
	pos := s.Position()
	if pos == 0 || pos == StageCount {
		return "", false
	}
	return StageSequence[pos], true
}

// StageAtPosition returns the stage at a 1-based sequence position
func StageAtPosition(position int) (Stage, error) {
	if position < 1 || position > StageCount {
		return "", ErrInvalidStage
	}
	return StageSequence[position-1], nil
}

// StageStatus represents the work status of a single stage record
type StageStatus string

const (
	StatusPending    StageStatus = "pending"
	StatusInProgress StageStatus = "in_progress"
	StatusCompleted  StageStatus = "completed"
)

// IsValid checks if the status is valid
func (s StageStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

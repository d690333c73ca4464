package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// IsTerminal: nenhum status sai de COMPLETED ou CANCELLED.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Blocks reports whether an appointment in this status occupies its slot.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition valida a máquina de estados:
// PENDING -> CONFIRMED -> COMPLETED, e PENDING|CONFIRMED -> CANCELLED.
func CanTransition(from, to Status) error {
	if from.IsTerminal() {
		return ErrAlreadyTerminal
	}

	switch {
	case from == StatusPending && to == StatusConfirmed:
		return nil
	case from == StatusConfirmed && to == StatusCompleted:
		return nil
	case to == StatusCancelled:
		return nil
	}

	return ErrInvalidStatusTransition
}

func InitialStatus() Status {
	return StatusPending
}

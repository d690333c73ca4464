package appointment

import "time"

type AvailabilityInput struct {
	ClinicID           uint
	DoctorProfileID    uint
	ConsultationTypeID uint
	// Date is any instant on the requested day, in the clinic timezone.
	Date time.Time
}

type TimeSlot struct {
	Start time.Time
	End   time.Time
}

func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}

package appointment

import "github.com/BruksfildServices01/clinic-booking/internal/models"

// FilterAvailable drops candidates that intersect any blocking appointment.
// Cancelled appointments never block.
func FilterAvailable(candidates []TimeSlot, existing []models.Appointment) []TimeSlot {
	free := make([]TimeSlot, 0, len(candidates))

	for _, slot := range candidates {
		if !conflicts(slot, existing) {
			free = append(free, slot)
		}
	}

	return free
}

func conflicts(slot TimeSlot, existing []models.Appointment) bool {
	for _, ap := range existing {
		if !Status(ap.Status).Blocks() {
			continue
		}
		if slot.Overlaps(ap.StartTime, ap.EndTime) {
			return true
		}
	}
	return false
}

// CountBlocking counts the appointments that still hold a slot.
func CountBlocking(existing []models.Appointment) int {
	n := 0
	for _, ap := range existing {
		if Status(ap.Status).Blocks() {
			n++
		}
	}
	return n
}

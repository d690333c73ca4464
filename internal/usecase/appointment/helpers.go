package appointment

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

var tracer = otel.Tracer("clinic-booking/usecase/appointment")

// resolveDoctor returns the requested doctor, or the clinic's default one
// when id is zero.
func resolveDoctor(ctx context.Context, repo domain.Repository, clinicID, id uint) (*models.DoctorProfile, error) {
	if id == 0 {
		return repo.GetDefaultDoctor(ctx, clinicID)
	}
	return repo.GetDoctorProfile(ctx, clinicID, id)
}

// bookableType returns the consultation type only while it is offered to
// patients; a deactivated type reads as not found.
func bookableType(ctx context.Context, repo domain.Repository, clinicID, id uint) (*models.ConsultationType, error) {
	ct, err := repo.GetConsultationType(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	if !ct.Active {
		return nil, domain.ErrConsultationTypeNotFound
	}
	return ct, nil
}

// forDoctor keeps the appointments held by one doctor.
func forDoctor(existing []models.Appointment, doctorID uint) []models.Appointment {
	out := make([]models.Appointment, 0, len(existing))
	for _, ap := range existing {
		if ap.DoctorProfileID == doctorID {
			out = append(out, ap)
		}
	}
	return out
}

// outcome labels err for metrics: business code, "storage_failure" or ok.
func outcome(err error, ok string) string {
	if err == nil {
		return ok
	}
	if code, isBusiness := httperr.CodeOf(err); isBusiness {
		return code
	}
	return "storage_failure"
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		var be httperr.BusinessError
		if !errors.As(err, &be) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

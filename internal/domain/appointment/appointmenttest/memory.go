// Package appointmenttest provides an in-memory appointment.Repository for
// tests. Transactions are serialized on one mutex, which plays the role of the
// clinic row lock, and CreateAppointment enforces the same unique indexes as
// the Postgres schema.
package appointmenttest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type state struct {
	clinics           map[uint]models.Clinic
	consultationTypes map[uint]models.ConsultationType
	doctors           map[uint]models.DoctorProfile
	windows           []models.AvailabilityWindow
	rules             map[uint]models.AppointmentRules
	patients          map[uint]models.Patient
	appointments      map[uint]models.Appointment
	nextID            uint
}

func (s *state) clone() *state {
	c := &state{
		clinics:           make(map[uint]models.Clinic, len(s.clinics)),
		consultationTypes: make(map[uint]models.ConsultationType, len(s.consultationTypes)),
		doctors:           make(map[uint]models.DoctorProfile, len(s.doctors)),
		windows:           append([]models.AvailabilityWindow(nil), s.windows...),
		rules:             make(map[uint]models.AppointmentRules, len(s.rules)),
		patients:          make(map[uint]models.Patient, len(s.patients)),
		appointments:      make(map[uint]models.Appointment, len(s.appointments)),
		nextID:            s.nextID,
	}
	for k, v := range s.clinics {
		c.clinics[k] = v
	}
	for k, v := range s.consultationTypes {
		c.consultationTypes[k] = v
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.rules {
		c.rules[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

type shared struct {
	txMu   sync.Mutex // held for the whole of Transaction
	dataMu sync.Mutex // guards st
	st     *state

	// Now stamps CreatedAt on inserted appointments. Defaults to time.Now.
	Now func() time.Time

	// BeforeCreate, when set, runs before every insert and may return an
	// error to simulate storage failures or lost races.
	BeforeCreate func(ap *models.Appointment) error
}

// Memory implements appointment.Repository.
type Memory struct {
	*shared
	inTx bool
}

var _ domain.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{shared: &shared{st: &state{
		clinics:           map[uint]models.Clinic{},
		consultationTypes: map[uint]models.ConsultationType{},
		doctors:           map[uint]models.DoctorProfile{},
		rules:             map[uint]models.AppointmentRules{},
		patients:          map[uint]models.Patient{},
		appointments:      map[uint]models.Appointment{},
	}}}
}

// hydrate fills the associations gorm would preload.
func (m *Memory) hydrate(ap *models.Appointment) {
	if p, ok := m.st.patients[ap.PatientID]; ok {
		ap.Patient = p
	}
	if ct, ok := m.st.consultationTypes[ap.ConsultationTypeID]; ok {
		ap.ConsultationType = ct
	}
	if d, ok := m.st.doctors[ap.DoctorProfileID]; ok {
		ap.DoctorProfile = d
	}
}

func (m *Memory) id() uint {
	m.st.nextID++
	return m.st.nextID
}

// ======================================================
// SEED HELPERS
// ======================================================

func (m *Memory) AddClinic(c models.Clinic) models.Clinic {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.st.clinics[c.ID] = c
	return c
}

func (m *Memory) AddConsultationType(ct models.ConsultationType) models.ConsultationType {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if ct.ID == 0 {
		ct.ID = m.id()
	}
	m.st.consultationTypes[ct.ID] = ct
	return ct
}

func (m *Memory) AddDoctor(d models.DoctorProfile) models.DoctorProfile {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if d.ID == 0 {
		d.ID = m.id()
	}
	m.st.doctors[d.ID] = d
	return d
}

func (m *Memory) AddWindow(w models.AvailabilityWindow) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if w.ID == 0 {
		w.ID = m.id()
	}
	m.st.windows = append(m.st.windows, w)
}

func (m *Memory) SetRules(r models.AppointmentRules) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	m.st.rules[r.ClinicID] = r
}

// AddAppointment stores ap as-is, bypassing every rule.
func (m *Memory) AddAppointment(ap models.Appointment) models.Appointment {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if ap.ID == 0 {
		ap.ID = m.id()
	}
	m.st.appointments[ap.ID] = ap
	return ap
}

// Appointments returns every stored appointment ordered by ID.
func (m *Memory) Appointments() []models.Appointment {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	out := make([]models.Appointment, 0, len(m.st.appointments))
	for _, ap := range m.st.appointments {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ======================================================
// REPOSITORY
// ======================================================

func (m *Memory) GetClinicByID(_ context.Context, id uint) (*models.Clinic, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	c, ok := m.st.clinics[id]
	if !ok {
		return nil, domain.ErrClinicNotFound
	}
	return &c, nil
}

func (m *Memory) GetClinicBySlug(_ context.Context, slug string) (*models.Clinic, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, c := range m.st.clinics {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrClinicNotFound
}

func (m *Memory) LockClinic(_ context.Context, clinicID uint) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if _, ok := m.st.clinics[clinicID]; !ok {
		return domain.ErrClinicNotFound
	}
	return nil
}

func (m *Memory) GetConsultationType(_ context.Context, clinicID, id uint) (*models.ConsultationType, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	ct, ok := m.st.consultationTypes[id]
	if !ok || ct.ClinicID != clinicID {
		return nil, domain.ErrConsultationTypeNotFound
	}
	return &ct, nil
}

func (m *Memory) ListConsultationTypes(_ context.Context, clinicID uint, activeOnly bool) ([]models.ConsultationType, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	out := []models.ConsultationType{}
	for _, ct := range m.st.consultationTypes {
		if ct.ClinicID == clinicID && (ct.Active || !activeOnly) {
			out = append(out, ct)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetDoctorProfile(_ context.Context, clinicID, id uint) (*models.DoctorProfile, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	d, ok := m.st.doctors[id]
	if !ok || d.ClinicID != clinicID || !d.Active {
		return nil, domain.ErrDoctorNotFound
	}
	return &d, nil
}

func (m *Memory) GetDefaultDoctor(_ context.Context, clinicID uint) (*models.DoctorProfile, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var best *models.DoctorProfile
	for _, d := range m.st.doctors {
		if d.ClinicID != clinicID || !d.Active {
			continue
		}
		if best == nil || d.ID < best.ID {
			d := d
			best = &d
		}
	}
	if best == nil {
		return nil, domain.ErrDoctorNotFound
	}
	return best, nil
}

func (m *Memory) ListAvailabilityWindows(_ context.Context, clinicID uint) ([]models.AvailabilityWindow, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var out []models.AvailabilityWindow
	for _, w := range m.st.windows {
		if w.ClinicID == clinicID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *Memory) GetAppointmentRules(_ context.Context, clinicID uint) (*models.AppointmentRules, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	r, ok := m.st.rules[clinicID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) GetOrCreatePatient(_ context.Context, clinicID uint, name, phone, email string) (*models.Patient, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, p := range m.st.patients {
		if p.ClinicID == clinicID && p.Phone == phone {
			p := p
			return &p, nil
		}
	}
	p := models.Patient{ID: m.id(), ClinicID: clinicID, Name: name, Phone: phone, Email: email}
	m.st.patients[p.ID] = p
	return &p, nil
}

func (m *Memory) ListBlockingForDay(_ context.Context, clinicID uint, date string) ([]models.Appointment, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var out []models.Appointment
	for _, ap := range m.st.appointments {
		if ap.ClinicID == clinicID && ap.Date == date && domain.Status(ap.Status).Blocks() {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if m.BeforeCreate != nil {
		if err := m.BeforeCreate(ap); err != nil {
			return err
		}
	}

	m.dataMu.Lock()
	defer m.dataMu.Unlock()

	for _, other := range m.st.appointments {
		if other.BookingRef == ap.BookingRef {
			return domain.ErrDuplicateBookingRef
		}
		if other.ClinicID == ap.ClinicID &&
			other.Date == ap.Date &&
			other.DoctorProfileID == ap.DoctorProfileID &&
			other.StartTime.Equal(ap.StartTime) &&
			domain.Status(other.Status).Blocks() {
			return domain.ErrActiveSlotTaken
		}
	}

	ap.ID = m.id()
	if ap.CreatedAt.IsZero() {
		now := time.Now
		if m.Now != nil {
			now = m.Now
		}
		ap.CreatedAt = now()
	}
	m.st.appointments[ap.ID] = *ap
	return nil
}

func (m *Memory) GetAppointment(_ context.Context, clinicID, id uint) (*models.Appointment, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	ap, ok := m.st.appointments[id]
	if !ok || ap.ClinicID != clinicID {
		return nil, domain.ErrAppointmentNotFound
	}
	m.hydrate(&ap)
	return &ap, nil
}

func (m *Memory) GetAppointmentByRef(_ context.Context, clinicID uint, ref string) (*models.Appointment, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	for _, ap := range m.st.appointments {
		if ap.ClinicID == clinicID && strings.EqualFold(ap.BookingRef, ref) {
			ap := ap
			m.hydrate(&ap)
			return &ap, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (m *Memory) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	if _, ok := m.st.appointments[ap.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	m.st.appointments[ap.ID] = *ap
	return nil
}

func (m *Memory) ListAppointmentsForPeriod(_ context.Context, clinicID uint, start, end time.Time) ([]models.Appointment, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var out []models.Appointment
	for _, ap := range m.st.appointments {
		if ap.ClinicID == clinicID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			m.hydrate(&ap)
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) ListStalePending(_ context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error) {
	m.dataMu.Lock()
	defer m.dataMu.Unlock()
	var out []models.Appointment
	for _, ap := range m.st.appointments {
		if ap.Status == string(domain.StatusPending) && ap.PaymentStatus != "paid" && ap.CreatedAt.Before(createdBefore) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if m.inTx {
		return fn(m)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.dataMu.Lock()
	snapshot := m.st.clone()
	m.dataMu.Unlock()

	if err := fn(&Memory{shared: m.shared, inTx: true}); err != nil {
		m.dataMu.Lock()
		m.st = snapshot
		m.dataMu.Unlock()
		return err
	}
	return nil
}

package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/audit"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	"github.com/drmadhusudhan/clinic-api/internal/notify"
)

type fakeAppointmentRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) Reserve(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.DoctorID == a.DoctorID && existing.Date == a.Date &&
			existing.Time == a.Time && existing.IsActive() {
			return appointment.ErrSlotTaken
		}
	}

	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) ListBookedTimes(ctx context.Context, doctorID uuid.UUID, date string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	times := make(map[string]struct{})
	for _, a := range r.byID {
		if a.DoctorID == doctorID && a.Date == date && a.IsActive() {
			times[a.Time] = struct{}{}
		}
	}
	return times, nil
}

func (r *fakeAppointmentRepo) ListUpcomingByPhone(ctx context.Context, phone, fromDate string) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.byID {
		if a.PatientPhone == phone && a.Date >= fromDate && a.IsActive() {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, q *appointment.ListQuery) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.byID {
		if a.DoctorID != q.DoctorID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = a.Status
	return nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	template  []string // nil means no template row
	overrides map[string]*schedule.Override
}

func newFakeScheduleRepo(template []string) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		template:  template,
		overrides: make(map[string]*schedule.Override),
	}
}

func overrideKey(date string, ct schedule.ConsultType) string {
	return date + "/" + string(ct)
}

func (r *fakeScheduleRepo) GetWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.template == nil {
		return nil, schedule.ErrTemplateNotFound
	}
	return append([]string(nil), r.template...), nil
}

func (r *fakeScheduleRepo) ReplaceWeeklyTemplate(ctx context.Context, doctorID uuid.UUID, slots []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.template = append([]string(nil), slots...)
	return nil
}

func (r *fakeScheduleRepo) GetOverride(ctx context.Context, doctorID uuid.UUID, date string, ct schedule.ConsultType) (*schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.overrides[overrideKey(date, ct)]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeScheduleRepo) UpsertOverride(ctx context.Context, doctorID uuid.UUID, date string, ct schedule.ConsultType, cmd *schedule.UpsertOverrideCommand) (*schedule.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := overrideKey(date, ct)
	o, ok := r.overrides[key]
	if !ok {
		o = &schedule.Override{DoctorID: doctorID, Date: date, ConsultType: ct}
		r.overrides[key] = o
	}
	if cmd.Closed != nil {
		o.Closed = *cmd.Closed
	}
	if cmd.Slots != nil {
		slots := append([]string(nil), *cmd.Slots...)
		o.Slots = &slots
	}
	cp := *o
	return &cp, nil
}

func (r *fakeScheduleRepo) DeleteOverride(ctx context.Context, doctorID uuid.UUID, date string, ct schedule.ConsultType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := overrideKey(date, ct)
	if _, ok := r.overrides[key]; !ok {
		return schedule.ErrOverrideNotFound
	}
	delete(r.overrides, key)
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*audit.Log
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *audit.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string // destination phones in send order
	fail bool
}

func (s *fakeSender) Send(ctx context.Context, phone, text string) notify.Result {
	s.mu.Lock()
	s.sent = append(s.sent, phone)
	s.mu.Unlock()

	if s.fail {
		return notify.Result{Method: "manual_link", Error: "backend down", FallbackURL: notify.ManualLink(phone, text)}
	}
	return notify.Result{Success: true, Method: "callmebot"}
}

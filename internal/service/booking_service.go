package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	"github.com/drmadhusudhan/clinic-api/internal/notify"
)

// BookCommand carries the raw booking request before validation.
type BookCommand struct {
	Date         string
	Time         string
	PatientName  string
	PatientPhone string
	Age          int
	Gender       string
	ConsultType  string
}

// BookResult is the committed appointment plus the advisory notification
// outcome. Notification failure never fails the booking.
type BookResult struct {
	Appointment   *appointment.Appointment
	Notifications *notify.DispatchReport
}

type BookingService struct {
	availability *AvailabilityService
	appointments appointment.Repository
	notifier     notify.Sender
	auditSvc     *AuditService
	clinic       config.ClinicConfig
	sendTimeout  time.Duration
	log          *zap.Logger
}

func NewBookingService(
	availability *AvailabilityService,
	appointments appointment.Repository,
	notifier notify.Sender,
	auditSvc *AuditService,
	clinic config.ClinicConfig,
	sendTimeout time.Duration,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		availability: availability,
		appointments: appointments,
		notifier:     notifier,
		auditSvc:     auditSvc,
		clinic:       clinic,
		sendTimeout:  sendTimeout,
		log:          log,
	}
}

// Book validates the request, confirms the slot is offered in principle,
// and reserves it atomically. The lead-time filter is deliberately skipped
// here: a slot that was shown remains bookable while the user fills the
// form, as long as it is still offered and free.
func (s *BookingService) Book(ctx context.Context, cmd *BookCommand, now time.Time) (*BookResult, error) {
	if err := validateBookCommand(cmd); err != nil {
		return nil, err
	}

	date, err := schedule.NormalizeDate(cmd.Date, s.availability.Location())
	if err != nil {
		return nil, &ValidationError{Fields: []string{"date must be YYYY-MM-DD or an RFC 3339 timestamp"}}
	}

	consultType := schedule.ConsultType(cmd.ConsultType)

	a := &appointment.Appointment{
		ID:           uuid.New(),
		DoctorID:     s.clinic.DoctorID,
		Date:         date,
		Time:         cmd.Time,
		PatientName:  strings.TrimSpace(cmd.PatientName),
		PatientPhone: strings.TrimSpace(cmd.PatientPhone),
		Age:          cmd.Age,
		Gender:       appointment.Gender(cmd.Gender),
		ConsultType:  consultType,
		Status:       appointment.StatusBooked,
	}

	result, err := s.reserveAndNotify(ctx, a)
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.String("booking_id", a.ID.String()),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
		zap.String("consult_type", string(a.ConsultType)),
	)
	return result, nil
}

// reserveAndNotify is the shared tail of the booking flow: offered-set
// check, atomic reservation, video links, audit, notifications.
func (s *BookingService) reserveAndNotify(ctx context.Context, a *appointment.Appointment) (*BookResult, error) {
	offered, err := s.availability.DeriveOffered(ctx, a.Date, a.ConsultType)
	if err != nil {
		return nil, err
	}
	if offered.Closed || !containsSlot(offered.Slots, a.Time) {
		return nil, appointment.ErrSlotNotOffered
	}

	if a.ConsultType == schedule.ConsultOnline {
		a.JitsiURL, a.MeetURL = videoLinks(a.ID)
	}

	if err := s.appointments.Reserve(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        a.PatientPhone,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return &BookResult{Appointment: a, Notifications: s.dispatchNotifications(a)}, nil
}

// dispatchNotifications sends the patient and doctor WhatsApp texts under a
// capped timeout. The booking is already committed: failures are logged and
// reported back as advisory only.
func (s *BookingService) dispatchNotifications(a *appointment.Appointment) *notify.DispatchReport {
	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	loc := s.availability.Location()
	patientMsg := notify.RenderPatientMessage(a, s.clinic.DoctorName, s.clinic.ClinicName, loc)
	doctorMsg := notify.RenderDoctorMessage(a, loc)

	report := &notify.DispatchReport{
		Patient: s.notifier.Send(ctx, a.PatientPhone, patientMsg),
		Doctor:  s.notifier.Send(ctx, s.clinic.DoctorPhone, doctorMsg),
	}
	report.BothSent = report.Patient.Success && report.Doctor.Success

	if !report.BothSent {
		s.log.Warn("booking notifications not fully delivered",
			zap.String("booking_id", a.ID.String()),
			zap.Bool("patient_sent", report.Patient.Success),
			zap.Bool("doctor_sent", report.Doctor.Success),
		)
	}
	return report
}

// Complete marks an appointment done. Completing twice is a no-op success.
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID, actor, ip string) (*appointment.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == appointment.StatusCompleted {
		return a, nil
	}

	a.Complete()
	if err := s.appointments.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      `{"status":"completed"}`,
	})
	return a, nil
}

// UpcomingByPhone returns the caller's active appointments from today
// onward, ordered by date then time.
func (s *BookingService) UpcomingByPhone(ctx context.Context, phone string, now time.Time) ([]*appointment.Appointment, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, &ValidationError{Fields: []string{"phone is required"}}
	}
	return s.appointments.ListUpcomingByPhone(ctx, phone, s.availability.Today(now))
}

// DashboardList serves the doctor's appointment overview.
func (s *BookingService) DashboardList(ctx context.Context, q *appointment.ListQuery) ([]*appointment.Appointment, error) {
	q.DoctorID = s.clinic.DoctorID
	return s.appointments.List(ctx, q)
}

func validateBookCommand(cmd *BookCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(cmd.Time) == "" {
		errs = append(errs, "time is required")
	} else if _, err := schedule.ParseClock(cmd.Time); err != nil {
		errs = append(errs, "time must be HH:MM in 24-hour format")
	}
	if strings.TrimSpace(cmd.PatientName) == "" {
		errs = append(errs, "patientName is required")
	}
	if strings.TrimSpace(cmd.PatientPhone) == "" {
		errs = append(errs, "patientPhone is required")
	}
	if cmd.Age <= 0 {
		errs = append(errs, "age is required")
	}
	if !appointment.Gender(cmd.Gender).IsValid() {
		errs = append(errs, "gender must be male, female or other")
	}
	if !schedule.ConsultType(cmd.ConsultType).IsValid() {
		errs = append(errs, "consultType must be online or offline")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func containsSlot(slots []string, t string) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// videoLinks derives the meeting room pair deterministically from the
// booking identity so the links can be regenerated from the record alone.
func videoLinks(id uuid.UUID) (jitsiURL, meetURL string) {
	room := "clinic-" + id.String()[:8]
	return "https://meet.jit.si/" + room, "https://meet.google.com/lookup/" + room
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

// Availability is the read-path result: the bookable slots for one date and
// consult type, or a closure with a display reason.
type Availability struct {
	Date        string
	ConsultType schedule.ConsultType
	Slots       []string
	Closed      bool
	Reason      string
}

// AvailabilityService composes the slot deriver with the booked set. All
// time-dependent logic takes `now` explicitly; nothing here reads the
// ambient clock.
type AvailabilityService struct {
	schedules    schedule.Repository
	appointments appointment.Repository
	doctorID     uuid.UUID
	loc          *time.Location
	leadTime     int // minutes
	log          *zap.Logger
}

func NewAvailabilityService(
	schedules schedule.Repository,
	appointments appointment.Repository,
	clinic config.ClinicConfig,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		schedules:    schedules,
		appointments: appointments,
		doctorID:     clinic.DoctorID,
		loc:          clinic.Location(),
		leadTime:     clinic.LeadTimeMinutes,
		log:          log,
	}
}

func (s *AvailabilityService) DoctorID() uuid.UUID        { return s.doctorID }
func (s *AvailabilityService) Location() *time.Location   { return s.loc }
func (s *AvailabilityService) Today(now time.Time) string { return now.In(s.loc).Format("2006-01-02") }

// GetAvailableSlots returns the bookable slots for a date: offered minus
// booked, in the offered order, with same-day slots inside the lead-time
// window dropped.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, rawDate string, consultType schedule.ConsultType, now time.Time) (*Availability, error) {
	if !consultType.IsValid() {
		return nil, schedule.ErrInvalidConsultType
	}

	date, err := schedule.NormalizeDate(rawDate, s.loc)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"date must be YYYY-MM-DD or an RFC 3339 timestamp"}}
	}

	// ISO dates compare correctly as strings.
	today := s.Today(now)
	if date < today {
		return nil, appointment.ErrPastDate
	}

	offered, err := s.DeriveOffered(ctx, date, consultType)
	if err != nil {
		return nil, err
	}
	if offered.Closed {
		return &Availability{Date: date, ConsultType: consultType, Slots: []string{}, Closed: true, Reason: offered.Reason}, nil
	}

	booked, err := s.appointments.ListBookedTimes(ctx, s.doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("loading booked times: %w", err)
	}

	available := make([]string, 0, len(offered.Slots))
	for _, slot := range offered.Slots {
		if _, taken := booked[slot]; !taken {
			available = append(available, slot)
		}
	}

	if date == today {
		available = s.dropLeadTimeSlots(available, now)
	}

	return &Availability{Date: date, ConsultType: consultType, Slots: available}, nil
}

// DeriveOffered computes the theoretically-offered set for a canonical
// date, without booked or lead-time filtering. The booking path uses this
// directly: a slot shown to the user stays bookable even if submission
// takes a few minutes.
func (s *AvailabilityService) DeriveOffered(ctx context.Context, date string, consultType schedule.ConsultType) (schedule.OfferedSlots, error) {
	day, err := schedule.DateIn(date, s.loc)
	if err != nil {
		return schedule.OfferedSlots{}, err
	}

	override, err := s.schedules.GetOverride(ctx, s.doctorID, date, consultType)
	if err != nil {
		return schedule.OfferedSlots{}, fmt.Errorf("loading override: %w", err)
	}

	var template []string
	if consultType == schedule.ConsultOffline {
		template, err = s.schedules.GetWeeklyTemplate(ctx, s.doctorID)
		if errors.Is(err, schedule.ErrTemplateNotFound) {
			template = nil
		} else if err != nil {
			return schedule.OfferedSlots{}, fmt.Errorf("loading weekly template: %w", err)
		}
	}

	return schedule.DeriveOfferedSlots(day, consultType, template, override), nil
}

// dropLeadTimeSlots keeps only slots starting strictly more than the
// lead-time buffer after now.
func (s *AvailabilityService) dropLeadTimeSlots(slots []string, now time.Time) []string {
	cutoff := schedule.MinutesOfDay(now, s.loc) + s.leadTime

	kept := slots[:0]
	for _, slot := range slots {
		start, err := schedule.ParseClock(slot)
		if err != nil {
			s.log.Warn("skipping malformed slot in stored schedule", zap.String("slot", slot))
			continue
		}
		if start > cutoff {
			kept = append(kept, slot)
		}
	}
	return kept
}

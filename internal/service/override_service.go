package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

// ApplyMode selects the scope of an admin schedule change: a single date or
// the weekly default going forward.
type ApplyMode string

const (
	ApplyOnce   ApplyMode = "once"
	ApplyAlways ApplyMode = "always"
)

// UpsertOverrideRequest is the raw admin request for a schedule change.
type UpsertOverrideRequest struct {
	Date        string
	ConsultType string
	ApplyMode   string // empty defaults to "once"
	Closed      *bool
	Slots       *[]string
}

// OverrideService owns the admin schedule mutations: per-date overrides and
// weekly template rewrites.
type OverrideService struct {
	schedules schedule.Repository
	auditSvc  *AuditService
	doctorID  uuid.UUID
	loc       *time.Location
	log       *zap.Logger
}

func NewOverrideService(
	schedules schedule.Repository,
	auditSvc *AuditService,
	clinic config.ClinicConfig,
	log *zap.Logger,
) *OverrideService {
	return &OverrideService{
		schedules: schedules,
		auditSvc:  auditSvc,
		doctorID:  clinic.DoctorID,
		loc:       clinic.Location(),
		log:       log,
	}
}

// Get returns the stored override for one (date, consult type) pair, or
// ErrOverrideNotFound when none exists.
func (s *OverrideService) Get(ctx context.Context, rawDate, rawType string) (*schedule.Override, error) {
	date, consultType, err := s.resolveKey(rawDate, rawType)
	if err != nil {
		return nil, err
	}

	o, err := s.schedules.GetOverride(ctx, s.doctorID, date, consultType)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, schedule.ErrOverrideNotFound
	}
	return o, nil
}

// Upsert applies an admin schedule change. In "once" mode it merges the
// supplied fields into the override for that date; in "always" mode it
// rewrites the weekly in-clinic template instead. Online slots are
// policy-defined, so "always" never applies to online.
func (s *OverrideService) Upsert(ctx context.Context, req *UpsertOverrideRequest, actor, ip string) (*schedule.Override, error) {
	date, consultType, err := s.resolveKey(req.Date, req.ConsultType)
	if err != nil {
		return nil, err
	}

	mode := ApplyMode(req.ApplyMode)
	if mode == "" {
		mode = ApplyOnce
	}
	if mode != ApplyOnce && mode != ApplyAlways {
		return nil, &ValidationError{Fields: []string{"applyMode must be once or always"}}
	}

	if req.Closed == nil && req.Slots == nil {
		return nil, &ValidationError{Fields: []string{"at least one of closed or slots must be provided"}}
	}
	if req.Slots != nil {
		if err := schedule.ValidateSlots(*req.Slots); err != nil {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
	}

	if mode == ApplyAlways {
		return nil, s.applyAlways(ctx, consultType, req, actor, ip)
	}

	o, err := s.schedules.UpsertOverride(ctx, s.doctorID, date, consultType, &schedule.UpsertOverrideCommand{
		Closed: req.Closed,
		Slots:  req.Slots,
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "availability_override",
		ResourceID:   date + "/" + string(consultType),
		IPAddress:    ip,
		Changes:      marshalChanges(req),
	})

	s.log.Info("availability override upserted",
		zap.String("date", date),
		zap.String("consult_type", string(consultType)),
	)
	return o, nil
}

// applyAlways rewrites the weekly in-clinic template. Closing every future
// day is not a template operation, so a closed flag without slots is
// rejected here.
func (s *OverrideService) applyAlways(ctx context.Context, consultType schedule.ConsultType, req *UpsertOverrideRequest, actor, ip string) error {
	if consultType == schedule.ConsultOnline {
		return schedule.ErrOnlineTemplateFixed
	}
	if req.Slots == nil {
		return &ValidationError{Fields: []string{"slots are required when applyMode is always"}}
	}

	if err := s.schedules.ReplaceWeeklyTemplate(ctx, s.doctorID, *req.Slots); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "weekly_template",
		ResourceID:   s.doctorID.String(),
		IPAddress:    ip,
		Changes:      marshalChanges(req),
	})

	s.log.Info("weekly template replaced", zap.Int("slot_count", len(*req.Slots)))
	return nil
}

// Delete removes the override so the date falls back to its default source.
func (s *OverrideService) Delete(ctx context.Context, rawDate, rawType, actor, ip string) error {
	date, consultType, err := s.resolveKey(rawDate, rawType)
	if err != nil {
		return err
	}

	if err := s.schedules.DeleteOverride(ctx, s.doctorID, date, consultType); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "delete",
		ResourceType: "availability_override",
		ResourceID:   date + "/" + string(consultType),
		IPAddress:    ip,
	})
	return nil
}

func (s *OverrideService) resolveKey(rawDate, rawType string) (string, schedule.ConsultType, error) {
	consultType := schedule.ConsultType(rawType)
	if !consultType.IsValid() {
		return "", "", schedule.ErrInvalidConsultType
	}
	date, err := schedule.NormalizeDate(rawDate, s.loc)
	if err != nil {
		return "", "", &ValidationError{Fields: []string{"date must be YYYY-MM-DD or an RFC 3339 timestamp"}}
	}
	return date, consultType, nil
}

func marshalChanges(req *UpsertOverrideRequest) string {
	b, err := json.Marshal(map[string]any{
		"applyMode": req.ApplyMode,
		"closed":    req.Closed,
		"slots":     req.Slots,
	})
	if err != nil {
		return ""
	}
	return string(b)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Reserve re-checks occupancy and inserts inside one serializable
// transaction so that two racing reservations for the same slot cannot both
// commit. The partial unique index on (doctor_id, date, time) backstops the
// check at the storage level.
func (r *AppointmentRepository) Reserve(ctx context.Context, a *appointment.Appointment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&appointment.Appointment{}).
			Where("doctor_id = ? AND date = ? AND time = ? AND status IN ?",
				a.DoctorID, a.Date, a.Time, appointment.ActiveStatuses()).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking slot occupancy: %w", err)
		}
		if count > 0 {
			return appointment.ErrSlotTaken
		}
		return tx.Create(a).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) || isSlotGuardViolation(err) {
			return appointment.ErrSlotTaken
		}
		return fmt.Errorf("reserving slot: %w", err)
	}
	return nil
}

// isSlotGuardViolation recognizes the two ways a lost race surfaces from
// Postgres: a unique violation on the slot guard index, or a serialization
// abort of the repeatable-read check.
func isSlotGuardViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code == "40001" {
		return true
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_appointments_slot_guard"
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListBookedTimes(ctx context.Context, doctorID uuid.UUID, date string) (map[string]struct{}, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status IN ?", doctorID, date, appointment.ActiveStatuses()).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("listing booked times: %w", err)
	}

	booked := make(map[string]struct{}, len(times))
	for _, t := range times {
		booked[t] = struct{}{}
	}
	return booked, nil
}

func (r *AppointmentRepository) ListUpcomingByPhone(ctx context.Context, phone, fromDate string) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_phone = ? AND date >= ? AND status IN ?", phone, fromDate, appointment.ActiveStatuses()).
		Order("date asc, time asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments by phone: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListQuery) ([]*appointment.Appointment, error) {
	query := r.db.WithContext(ctx).Where("doctor_id = ?", q.DoctorID)
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		query = query.Where("date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date <= ?", *q.DateTo)
	}

	var out []*appointment.Appointment
	if err := query.Order("date desc, time asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Update("status", a.Status).Error
	if err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}
	return nil
}

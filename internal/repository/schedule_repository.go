package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) ([]string, error) {
	var tpl schedule.WeeklyTemplate
	err := r.db.WithContext(ctx).First(&tpl, "doctor_id = ?", doctorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching weekly template: %w", err)
	}
	return tpl.DaySlots, nil
}

func (r *ScheduleRepository) ReplaceWeeklyTemplate(ctx context.Context, doctorID uuid.UUID, slots []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tpl schedule.WeeklyTemplate
		err := tx.First(&tpl, "doctor_id = ?", doctorID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&schedule.WeeklyTemplate{DoctorID: doctorID, DaySlots: slots}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&tpl).Update("day_slots", slots).Error
	})
	if err != nil {
		return fmt.Errorf("replacing weekly template: %w", err)
	}
	return nil
}

// EnsureWeeklyTemplate seeds the default template when none exists yet.
func (r *ScheduleRepository) EnsureWeeklyTemplate(ctx context.Context, doctorID uuid.UUID, slots []string) error {
	tpl := schedule.WeeklyTemplate{DoctorID: doctorID, DaySlots: slots}
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		FirstOrCreate(&tpl).Error
	if err != nil {
		return fmt.Errorf("ensuring weekly template: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType schedule.ConsultType) (*schedule.Override, error) {
	var ov schedule.Override
	err := r.db.WithContext(ctx).
		First(&ov, "doctor_id = ? AND date = ? AND consult_type = ?", doctorID, date, consultType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching override: %w", err)
	}
	return &ov, nil
}

// UpsertOverride merges supplied fields into the existing row, or creates a
// fresh one. A supplied slot list always replaces the stored list wholesale.
func (r *ScheduleRepository) UpsertOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType schedule.ConsultType, cmd *schedule.UpsertOverrideCommand) (*schedule.Override, error) {
	var out *schedule.Override
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ov schedule.Override
		err := tx.First(&ov, "doctor_id = ? AND date = ? AND consult_type = ?", doctorID, date, consultType).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ov = schedule.Override{
				DoctorID:    doctorID,
				Date:        date,
				ConsultType: consultType,
			}
			if cmd.Closed != nil {
				ov.Closed = *cmd.Closed
			}
			ov.Slots = cmd.Slots
			if err := tx.Create(&ov).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if cmd.Closed != nil {
				ov.Closed = *cmd.Closed
			}
			if cmd.Slots != nil {
				ov.Slots = cmd.Slots
			}
			if err := tx.Save(&ov).Error; err != nil {
				return err
			}
		}
		out = &ov
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upserting override: %w", err)
	}
	return out, nil
}

func (r *ScheduleRepository) DeleteOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType schedule.ConsultType) error {
	res := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND consult_type = ?", doctorID, date, consultType).
		Delete(&schedule.Override{})
	if res.Error != nil {
		return fmt.Errorf("deleting override: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return schedule.ErrOverrideNotFound
	}
	return nil
}

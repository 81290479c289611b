package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

func newOverrideFixture(t *testing.T, template []string) (*OverrideService, *fakeScheduleRepo) {
	t.Helper()
	schedules := newFakeScheduleRepo(template)
	auditSvc := NewAuditService(&fakeAuditRepo{}, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)
	return NewOverrideService(schedules, auditSvc, testClinicConfig(), zap.NewNop()), schedules
}

func boolPtr(b bool) *bool           { return &b }
func slotsPtr(s ...string) *[]string { return &s }

func TestUpsertOverrideRequiresSomeField(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Upsert(context.Background(), &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline",
	}, "admin", "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpsertOverrideRejectsBadSlots(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Upsert(context.Background(), &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Slots: slotsPtr("25:00"),
	}, "admin", "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpsertOverrideRejectsUnknownApplyMode(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Upsert(context.Background(), &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", ApplyMode: "forever", Closed: boolPtr(true),
	}, "admin", "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpsertOverrideFieldMerge(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Slots: slotsPtr("10:00", "10:30"),
	}, "admin", "")
	require.NoError(t, err)

	// Setting closed leaves the stored slot list untouched.
	o, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Closed: boolPtr(true),
	}, "admin", "")
	require.NoError(t, err)
	assert.True(t, o.Closed)
	require.NotNil(t, o.Slots)
	assert.Equal(t, []string{"10:00", "10:30"}, *o.Slots)
}

func TestUpsertOverrideSlotsReplaceWholesale(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Slots: slotsPtr("10:00", "10:30"),
	}, "admin", "")
	require.NoError(t, err)

	o, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Slots: slotsPtr("16:00"),
	}, "admin", "")
	require.NoError(t, err)
	require.NotNil(t, o.Slots)
	assert.Equal(t, []string{"16:00"}, *o.Slots, "slot list replaces, never appends")
}

func TestUpsertAlwaysRewritesWeeklyTemplate(t *testing.T) {
	svc, schedules := newOverrideFixture(t, schedule.DefaultDaySlots())
	ctx := context.Background()

	o, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", ApplyMode: "always", Slots: slotsPtr("11:00", "11:30"),
	}, "admin", "")
	require.NoError(t, err)
	assert.Nil(t, o, "always mode stores no per-date override")

	template, err := schedules.GetWeeklyTemplate(ctx, testDoctorID)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30"}, template)

	stored, err := schedules.GetOverride(ctx, testDoctorID, "2026-09-10", schedule.ConsultOffline)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUpsertAlwaysRejectedForOnline(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Upsert(context.Background(), &UpsertOverrideRequest{
		Date: "2026-09-06", ConsultType: "online", ApplyMode: "always", Slots: slotsPtr("10:00"),
	}, "admin", "")
	assert.ErrorIs(t, err, schedule.ErrOnlineTemplateFixed)
}

func TestUpsertAlwaysRequiresSlots(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Upsert(context.Background(), &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", ApplyMode: "always", Closed: boolPtr(true),
	}, "admin", "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestGetOverrideNotFound(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Get(context.Background(), "2026-09-10", "offline")
	assert.ErrorIs(t, err, schedule.ErrOverrideNotFound)
}

func TestDeleteOverride(t *testing.T) {
	svc, schedules := newOverrideFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &UpsertOverrideRequest{
		Date: "2026-09-10", ConsultType: "offline", Closed: boolPtr(true),
	}, "admin", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "2026-09-10", "offline", "admin", ""))

	stored, err := schedules.GetOverride(ctx, testDoctorID, "2026-09-10", schedule.ConsultOffline)
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.ErrorIs(t, svc.Delete(ctx, "2026-09-10", "offline", "admin", ""), schedule.ErrOverrideNotFound)
}

func TestOverrideInvalidConsultType(t *testing.T) {
	svc, _ := newOverrideFixture(t, nil)

	_, err := svc.Get(context.Background(), "2026-09-10", "video")
	assert.ErrorIs(t, err, schedule.ErrInvalidConsultType)
}

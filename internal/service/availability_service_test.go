package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

var testDoctorID = uuid.MustParse("7b1c9a52-0f3e-4f8e-9f2a-3d8f6c1a5e90")

func testClinicConfig() config.ClinicConfig {
	return config.ClinicConfig{
		DoctorID:           testDoctorID,
		DoctorName:         "Dr. Test",
		DoctorPhone:        "919900000000",
		ClinicName:         "Test Clinic",
		UTCOffsetMinutes:   330,
		LeadTimeMinutes:    15,
		ConsultationFeeINR: 500,
	}
}

// istTime builds an instant at the given IST wall-clock time.
func istTime(t *testing.T, date, clock string) time.Time {
	t.Helper()
	loc := testClinicConfig().Location()
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	require.NoError(t, err)
	return ts
}

func newAvailabilityFixture(template []string) (*AvailabilityService, *fakeScheduleRepo, *fakeAppointmentRepo) {
	schedules := newFakeScheduleRepo(template)
	appointments := newFakeAppointmentRepo()
	svc := NewAvailabilityService(schedules, appointments, testClinicConfig(), zap.NewNop())
	return svc, schedules, appointments
}

func TestGetAvailableSlotsRejectsInvalidConsultType(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(nil)

	_, err := svc.GetAvailableSlots(context.Background(), "2026-09-08", "phone", istTime(t, "2026-09-01", "09:00"))
	assert.ErrorIs(t, err, schedule.ErrInvalidConsultType)
}

func TestGetAvailableSlotsRejectsPastDate(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(schedule.DefaultDaySlots())
	now := istTime(t, "2026-09-08", "09:00")

	_, err := svc.GetAvailableSlots(context.Background(), "2026-09-07", schedule.ConsultOffline, now)
	assert.ErrorIs(t, err, appointment.ErrPastDate)

	// Today itself is not a past date.
	_, err = svc.GetAvailableSlots(context.Background(), "2026-09-08", schedule.ConsultOffline, now)
	assert.NoError(t, err)
}

func TestGetAvailableSlotsRejectsMalformedDate(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(nil)

	_, err := svc.GetAvailableSlots(context.Background(), "next tuesday", schedule.ConsultOffline, istTime(t, "2026-09-01", "09:00"))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestGetAvailableSlotsSubtractsBookedPreservingOrder(t *testing.T) {
	template := []string{"10:15", "10:30", "10:45", "11:00"}
	svc, _, appointments := newAvailabilityFixture(template)

	// 2026-09-10 is a Thursday, a regular in-clinic day.
	for _, slot := range []string{"10:30", "11:00"} {
		require.NoError(t, appointments.Reserve(context.Background(), &appointment.Appointment{
			ID: uuid.New(), DoctorID: testDoctorID, Date: "2026-09-10", Time: slot,
			Status: appointment.StatusBooked, ConsultType: schedule.ConsultOffline,
		}))
	}

	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:15", "10:45"}, got.Slots)
	assert.False(t, got.Closed)
}

func TestGetAvailableSlotsCompletedDoesNotOccupy(t *testing.T) {
	template := []string{"10:15", "10:30"}
	svc, _, appointments := newAvailabilityFixture(template)

	a := &appointment.Appointment{
		ID: uuid.New(), DoctorID: testDoctorID, Date: "2026-09-10", Time: "10:15",
		Status: appointment.StatusBooked, ConsultType: schedule.ConsultOffline,
	}
	require.NoError(t, appointments.Reserve(context.Background(), a))
	a.Complete()
	require.NoError(t, appointments.UpdateStatus(context.Background(), a))

	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:15", "10:30"}, got.Slots)
}

func TestGetAvailableSlotsLeadTimeWindow(t *testing.T) {
	template := []string{"13:30", "13:50", "14:00", "14:10", "15:00"}
	svc, _, _ := newAvailabilityFixture(template)

	// At 13:50 IST with a 15-minute lead time the cutoff is 14:05: a slot
	// must start strictly after it.
	now := istTime(t, "2026-09-10", "13:50")
	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"14:10", "15:00"}, got.Slots)

	// A future date keeps the full set regardless of the clock.
	got, err = svc.GetAvailableSlots(context.Background(), "2026-09-11", schedule.ConsultOffline, now)
	require.NoError(t, err)
	assert.Equal(t, template, got.Slots)
}

func TestGetAvailableSlotsIsIdempotent(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(schedule.DefaultDaySlots())
	now := istTime(t, "2026-09-01", "09:00")

	first, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, now)
	require.NoError(t, err)
	second, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAvailableSlotsOfflineClosedDay(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(schedule.DefaultDaySlots())

	// 2026-09-06 is a Sunday.
	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-06", schedule.ConsultOffline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.True(t, got.Closed)
	assert.Contains(t, got.Reason, "video call")
	assert.Empty(t, got.Slots)
}

func TestGetAvailableSlotsOnlineIgnoresTemplate(t *testing.T) {
	// No weekly template row at all: online derivation must not care.
	svc, _, _ := newAvailabilityFixture(nil)

	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-06", schedule.ConsultOnline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:25", "10:50", "11:15", "11:40", "12:05", "12:30"}, got.Slots)
}

func TestGetAvailableSlotsOverrideClosed(t *testing.T) {
	svc, schedules, _ := newAvailabilityFixture(schedule.DefaultDaySlots())

	closed := true
	_, err := schedules.UpsertOverride(context.Background(), testDoctorID, "2026-09-10", schedule.ConsultOffline,
		&schedule.UpsertOverrideCommand{Closed: &closed})
	require.NoError(t, err)

	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOffline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.True(t, got.Closed)
	assert.NotEmpty(t, got.Reason)
}

func TestGetAvailableSlotsOverrideScopedToConsultType(t *testing.T) {
	svc, schedules, _ := newAvailabilityFixture(schedule.DefaultDaySlots())

	closed := true
	_, err := schedules.UpsertOverride(context.Background(), testDoctorID, "2026-09-10", schedule.ConsultOffline,
		&schedule.UpsertOverrideCommand{Closed: &closed})
	require.NoError(t, err)

	// The online set for the same date is untouched.
	got, err := svc.GetAvailableSlots(context.Background(), "2026-09-10", schedule.ConsultOnline, istTime(t, "2026-09-01", "09:00"))
	require.NoError(t, err)
	assert.False(t, got.Closed)
	assert.Equal(t, []string{"20:30", "21:00"}, got.Slots)
}

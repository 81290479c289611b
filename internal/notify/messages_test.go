package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

var ist = time.FixedZone("CLINIC", 330*60)

func sampleAppointment(consultType schedule.ConsultType) *appointment.Appointment {
	a := &appointment.Appointment{
		ID:           uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"),
		Date:         "2026-09-10",
		Time:         "20:30",
		PatientName:  "Asha Rao",
		PatientPhone: "9876543210",
		Age:          34,
		Gender:       appointment.GenderFemale,
		ConsultType:  consultType,
		Status:       appointment.StatusBooked,
	}
	if consultType == schedule.ConsultOnline {
		a.JitsiURL = "https://meet.jit.si/clinic-0f8fad5b"
		a.MeetURL = "https://meet.google.com/lookup/clinic-0f8fad5b"
	}
	return a
}

func TestRenderPatientMessageOnline(t *testing.T) {
	msg := RenderPatientMessage(sampleAppointment(schedule.ConsultOnline), "Dr. Test", "Test Clinic", ist)

	for _, want := range []string{
		"Asha Rao",
		"Dr. Test",
		"Thursday, 10 September 2026",
		"8:30 PM",
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"https://meet.jit.si/clinic-0f8fad5b",
		"Test Clinic",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("patient message missing %q", want)
		}
	}
}

func TestRenderPatientMessageOffline(t *testing.T) {
	msg := RenderPatientMessage(sampleAppointment(schedule.ConsultOffline), "Dr. Test", "Test Clinic", ist)

	if strings.Contains(msg, "meet.jit.si") {
		t.Error("offline message must not carry a video link")
	}
	if !strings.Contains(msg, "arrive 10 minutes early") {
		t.Error("offline message missing arrival note")
	}
}

func TestRenderDoctorMessage(t *testing.T) {
	msg := RenderDoctorMessage(sampleAppointment(schedule.ConsultOnline), ist)

	for _, want := range []string{"Asha Rao", "9876543210", "34 years", "Female", "8:30 PM"} {
		if !strings.Contains(msg, want) {
			t.Errorf("doctor message missing %q", want)
		}
	}
}

func TestDisplayTime(t *testing.T) {
	cases := map[string]string{
		"00:05": "12:05 AM",
		"09:00": "9:00 AM",
		"12:00": "12:00 PM",
		"13:45": "1:45 PM",
		"20:30": "8:30 PM",
	}
	for in, want := range cases {
		if got := DisplayTime(in); got != want {
			t.Errorf("DisplayTime(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":       "919876543210",
		"919876543210":     "919876543210",
		"+91 98765 43210":  "919876543210",
		"098-7654-3210":    "9109876543210",
		"+91 (98765)43210": "919876543210",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestManualLink(t *testing.T) {
	link := ManualLink("9876543210", "hello there")
	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Errorf("unexpected link %q", link)
	}
	if !strings.Contains(link, "hello+there") && !strings.Contains(link, "hello%20there") {
		t.Errorf("message not escaped in %q", link)
	}
}

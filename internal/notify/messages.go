package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

// RenderPatientMessage builds the confirmation text sent to the patient.
func RenderPatientMessage(a *appointment.Appointment, doctorName, clinicName string, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("✅ *Appointment Confirmed*\n\n")
	fmt.Fprintf(&b, "Hello %s,\n\n", a.PatientName)
	fmt.Fprintf(&b, "Your %s with *%s* has been confirmed!\n\n", consultLabel(a.ConsultType), doctorName)
	fmt.Fprintf(&b, "📅 *Date:* %s\n", DisplayDate(a.Date, loc))
	fmt.Fprintf(&b, "🕐 *Time:* %s\n", DisplayTime(a.Time))
	fmt.Fprintf(&b, "📋 *Booking ID:* %s\n", a.ID)

	if a.ConsultType == schedule.ConsultOnline {
		fmt.Fprintf(&b, "\n🔗 *Video Call Link:*\n%s\n", a.JitsiURL)
		fmt.Fprintf(&b, "Backup link: %s\n", a.MeetURL)
		b.WriteString("\n*Instructions:*\n")
		b.WriteString("- Please join the meeting 5 minutes before the scheduled time\n")
		b.WriteString("- Make sure you have a stable internet connection\n")
		b.WriteString("- Keep your medical reports ready if any\n")
	} else {
		b.WriteString("\nPlease arrive 10 minutes early and carry your previous reports if any.\n")
	}

	fmt.Fprintf(&b, "\nFor any queries, please contact us.\n\nThank you!\n*%s*", clinicName)
	return b.String()
}

// RenderDoctorMessage builds the new-booking alert sent to the doctor.
func RenderDoctorMessage(a *appointment.Appointment, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔔 *New %s*\n\n", capitalize(consultLabel(a.ConsultType)))
	b.WriteString("*Patient Details:*\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", a.PatientName)
	fmt.Fprintf(&b, "📞 Phone: %s\n", a.PatientPhone)
	fmt.Fprintf(&b, "🎂 Age: %d years\n", a.Age)
	fmt.Fprintf(&b, "⚧ Gender: %s\n\n", capitalize(string(a.Gender)))
	fmt.Fprintf(&b, "📅 *Date:* %s\n", DisplayDate(a.Date, loc))
	fmt.Fprintf(&b, "🕐 *Time:* %s\n", DisplayTime(a.Time))
	fmt.Fprintf(&b, "📋 *Booking ID:* %s\n", a.ID)

	if a.ConsultType == schedule.ConsultOnline {
		fmt.Fprintf(&b, "\n🔗 *Video Call Link:*\n%s\n", a.JitsiURL)
		b.WriteString("\n*Note:* Patient has been notified with the meeting link.")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func consultLabel(t schedule.ConsultType) string {
	if t == schedule.ConsultOnline {
		return "online video consultation"
	}
	return "in-clinic appointment"
}

// DisplayDate formats a YYYY-MM-DD date as a long readable date.
func DisplayDate(date string, loc *time.Location) string {
	t, err := schedule.DateIn(date, loc)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 January 2006")
}

// DisplayTime converts a 24-hour HH:MM slot to 12-hour display form.
func DisplayTime(slot string) string {
	m, err := schedule.ParseClock(slot)
	if err != nil {
		return slot
	}
	h := m / 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, m%60, ampm)
}

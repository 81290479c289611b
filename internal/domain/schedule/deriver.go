package schedule

import "time"

// OfferedSlots is the theoretically-offered slot set for one date and
// consult type, before booked and lead-time filtering.
type OfferedSlots struct {
	Slots  []string
	Closed bool
	Reason string
}

const offlineClosedReason = "Clinic is closed on Sunday and Monday. Please book a video call consultation instead."

// onlineSlotPolicy is the fixed per-weekday online schedule. Sundays and
// Mondays carry a morning block of 15-minute consultations separated by
// 10-minute buffers; the remaining weekdays offer two evening slots.
var onlineSlotPolicy = []struct {
	days  []time.Weekday
	slots []string
}{
	{
		days:  []time.Weekday{time.Sunday, time.Monday},
		slots: []string{"10:00", "10:25", "10:50", "11:15", "11:40", "12:05", "12:30"},
	},
	{
		days:  []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		slots: []string{"20:30", "21:00"},
	},
}

func onlineSlotsFor(day time.Weekday) []string {
	for _, bucket := range onlineSlotPolicy {
		for _, d := range bucket.days {
			if d == day {
				return append([]string(nil), bucket.slots...)
			}
		}
	}
	return nil
}

func clinicClosedOn(day time.Weekday) bool {
	return day == time.Sunday || day == time.Monday
}

// DeriveOfferedSlots computes the offered slot set for one calendar date.
// The date must already be anchored in the clinic's reference location so
// the weekday classification is stable regardless of the caller's timezone.
//
// An override is authoritative: closed wins outright, and an explicit slot
// list bypasses both the weekly template and the online policy.
func DeriveOfferedSlots(date time.Time, consultType ConsultType, template []string, override *Override) OfferedSlots {
	if override != nil {
		if override.Closed {
			return OfferedSlots{Closed: true, Reason: "The doctor is unavailable on this date."}
		}
		if override.Slots != nil {
			return OfferedSlots{Slots: append([]string(nil), *override.Slots...)}
		}
	}

	day := date.Weekday()

	if consultType == ConsultOnline {
		slots := onlineSlotsFor(day)
		if len(slots) == 0 {
			return OfferedSlots{}
		}
		return OfferedSlots{Slots: slots}
	}

	if clinicClosedOn(day) {
		return OfferedSlots{Closed: true, Reason: offlineClosedReason}
	}
	return OfferedSlots{Slots: append([]string(nil), template...)}
}

package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("this slot is already booked, please choose another time")
	ErrSlotNotOffered      = errors.New("this time slot is not offered by the doctor")
	ErrPastDate            = errors.New("cannot book appointments for past dates")
)

package schedule

import "errors"

var (
	ErrInvalidConsultType  = errors.New("consultType must be online or offline")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidSlot         = errors.New("invalid slot, expected HH:MM in 24-hour format")
	ErrOverrideNotFound    = errors.New("availability override not found")
	ErrTemplateNotFound    = errors.New("weekly availability template not found")
	ErrOnlineTemplateFixed = errors.New("online consultation schedules are fixed by day of week and cannot be permanently changed; use a date-specific override instead")
)

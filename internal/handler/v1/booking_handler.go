package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	"github.com/drmadhusudhan/clinic-api/internal/notify"
	"github.com/drmadhusudhan/clinic-api/internal/service"
	"github.com/drmadhusudhan/clinic-api/pkg/metrics"
)

type BookingHandler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	collector    *metrics.Collector
}

func NewBookingHandler(
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	collector *metrics.Collector,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		bookings:     bookings,
		collector:    collector,
	}
}

type availabilityView struct {
	Date        string   `json:"date"`
	ConsultType string   `json:"consultType"`
	Slots       []string `json:"availableSlots"`
	Closed      bool     `json:"closed"`
	Reason      string   `json:"reason,omitempty"`
}

type appointmentView struct {
	BookingID    string `json:"bookingId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PatientName  string `json:"patientName"`
	PatientPhone string `json:"patientPhone"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	ConsultType  string `json:"consultType"`
	Status       string `json:"status"`
	JitsiURL     string `json:"jitsiUrl,omitempty"`
	MeetURL      string `json:"meetUrl,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func toAppointmentView(a *appointment.Appointment) appointmentView {
	return appointmentView{
		BookingID:    a.ID.String(),
		Date:         a.Date,
		Time:         a.Time,
		PatientName:  a.PatientName,
		PatientPhone: a.PatientPhone,
		Age:          a.Age,
		Gender:       string(a.Gender),
		ConsultType:  string(a.ConsultType),
		Status:       string(a.Status),
		JitsiURL:     a.JitsiURL,
		MeetURL:      a.MeetURL,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type bookingView struct {
	appointmentView
	Notifications *notify.DispatchReport `json:"notifications,omitempty"`
}

// GetSlots handles GET /api/bookings/slots?date=...&consultType=...
// An absent consultType means an in-clinic visit.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	consultType := c.Query("consultType")
	if consultType == "" {
		consultType = string(schedule.ConsultOffline)
	}

	avail, err := h.availability.GetAvailableSlots(
		c.Request.Context(),
		c.Query("date"),
		schedule.ConsultType(consultType),
		time.Now(),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, availabilityView{
		Date:        avail.Date,
		ConsultType: string(avail.ConsultType),
		Slots:       avail.Slots,
		Closed:      avail.Closed,
		Reason:      avail.Reason,
	})
}

type bookRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	PatientName  string `json:"patientName"`
	PatientPhone string `json:"patientPhone"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	ConsultType  string `json:"consultType"`
}

// Book handles POST /api/bookings.
func (h *BookingHandler) Book(c *gin.Context) {
	var req bookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.bookings.Book(c.Request.Context(), &service.BookCommand{
		Date:         req.Date,
		Time:         req.Time,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Age:          req.Age,
		Gender:       req.Gender,
		ConsultType:  req.ConsultType,
	}, time.Now())
	if err != nil {
		if errors.Is(err, appointment.ErrSlotTaken) {
			h.collector.SlotConflictsTotal.Inc()
		}
		respondServiceError(c, err)
		return
	}

	a := result.Appointment
	h.collector.BookingsTotal.WithLabelValues(string(a.ConsultType), string(a.Status)).Inc()
	h.countNotifications(result.Notifications)

	respondCreated(c, bookingView{
		appointmentView: toAppointmentView(a),
		Notifications:   result.Notifications,
	})
}

// Complete handles PATCH /api/bookings/:appointmentId/complete.
func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := parseUUID(c, "appointmentId")
	if !ok {
		return
	}

	a, err := h.bookings.Complete(c.Request.Context(), id, adminActor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentView(a))
}

// CheckAppointments handles GET /api/bookings/check-appointments?phone=...
func (h *BookingHandler) CheckAppointments(c *gin.Context) {
	list, err := h.bookings.UpcomingByPhone(c.Request.Context(), c.Query("phone"), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]appointmentView, 0, len(list))
	for _, a := range list {
		views = append(views, toAppointmentView(a))
	}
	respondOK(c, views)
}

// ListAppointments handles GET /api/bookings/doctor/appointments.
func (h *BookingHandler) ListAppointments(c *gin.Context) {
	q := &appointment.ListQuery{}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		q.Status = &st
	}
	if raw := c.Query("dateFrom"); raw != "" {
		q.DateFrom = &raw
	}
	if raw := c.Query("dateTo"); raw != "" {
		q.DateTo = &raw
	}

	list, err := h.bookings.DashboardList(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]appointmentView, 0, len(list))
	for _, a := range list {
		views = append(views, toAppointmentView(a))
	}
	respondOK(c, views)
}

func (h *BookingHandler) countNotifications(report *notify.DispatchReport) {
	if report == nil {
		return
	}
	for _, r := range []notify.Result{report.Patient, report.Doctor} {
		outcome := "failure"
		if r.Success {
			outcome = "success"
		}
		h.collector.NotificationsTotal.WithLabelValues(r.Method, outcome).Inc()
	}
}

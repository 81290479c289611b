package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drmadhusudhan/clinic-api/internal/service"
	"github.com/drmadhusudhan/clinic-api/pkg/metrics"
)

type PaymentHandler struct {
	payments  *service.PaymentService
	collector *metrics.Collector
}

func NewPaymentHandler(payments *service.PaymentService, collector *metrics.Collector) *PaymentHandler {
	return &PaymentHandler{payments: payments, collector: collector}
}

type createOrderRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	PatientName  string `json:"patientName"`
	PatientPhone string `json:"patientPhone"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	ConsultType  string `json:"consultType"`
}

// CreateOrder handles POST /api/payments/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), &service.CreateOrderCommand{
		Date:         req.Date,
		Time:         req.Time,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Age:          req.Age,
		Gender:       req.Gender,
		ConsultType:  req.ConsultType,
	}, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PaymentOrdersTotal.Inc()
	respondCreated(c, order)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpayOrderId"`
	PaymentID string `json:"razorpayPaymentId"`
	Signature string `json:"razorpaySignature"`
}

// Verify handles POST /api/payments/verify. Success finalizes the booking.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.payments.VerifyAndBook(c.Request.Context(), &service.VerifyPaymentCommand{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	a := result.Appointment
	h.collector.BookingsTotal.WithLabelValues(string(a.ConsultType), string(a.Status)).Inc()

	respondCreated(c, bookingView{
		appointmentView: toAppointmentView(a),
		Notifications:   result.Notifications,
	})
}

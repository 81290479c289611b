package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/appointment"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	"github.com/drmadhusudhan/clinic-api/internal/payment"
)

// CreateOrderCommand is the pre-payment booking intent. The slot is not
// reserved yet: the order's notes carry the intent and the booking is
// finalized only after the payment signature verifies.
type CreateOrderCommand struct {
	Date         string
	Time         string
	PatientName  string
	PatientPhone string
	Age          int
	Gender       string
	ConsultType  string
}

// VerifyPaymentCommand is the checkout callback payload.
type VerifyPaymentCommand struct {
	OrderID   string
	PaymentID string
	Signature string
}

// OrderSummary is what the checkout widget needs to open.
type OrderSummary struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// PaymentService drives the pay-then-book flow for online consultations.
type PaymentService struct {
	gateway  payment.Gateway
	bookings *BookingService
	clinic   config.ClinicConfig
	keyID    string
	log      *zap.Logger
}

func NewPaymentService(
	gateway payment.Gateway,
	bookings *BookingService,
	clinic config.ClinicConfig,
	razorpay config.RazorpayConfig,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		bookings: bookings,
		clinic:   clinic,
		keyID:    razorpay.KeyID,
		log:      log,
	}
}

// CreateOrder validates the booking intent, confirms the slot is offered,
// and opens a gateway order whose notes carry the intent verbatim.
func (s *PaymentService) CreateOrder(ctx context.Context, cmd *CreateOrderCommand, now time.Time) (*OrderSummary, error) {
	book := &BookCommand{
		Date:         cmd.Date,
		Time:         cmd.Time,
		PatientName:  cmd.PatientName,
		PatientPhone: cmd.PatientPhone,
		Age:          cmd.Age,
		Gender:       cmd.Gender,
		ConsultType:  cmd.ConsultType,
	}
	if err := validateBookCommand(book); err != nil {
		return nil, err
	}
	if schedule.ConsultType(cmd.ConsultType) != schedule.ConsultOnline {
		return nil, ErrPaymentOnlineConsultsOnly
	}

	date, err := schedule.NormalizeDate(cmd.Date, s.bookings.availability.Location())
	if err != nil {
		return nil, &ValidationError{Fields: []string{"date must be YYYY-MM-DD or an RFC 3339 timestamp"}}
	}

	offered, err := s.bookings.availability.DeriveOffered(ctx, date, schedule.ConsultOnline)
	if err != nil {
		return nil, err
	}
	if offered.Closed || !containsSlot(offered.Slots, cmd.Time) {
		return nil, appointment.ErrSlotNotOffered
	}

	amount := int64(s.clinic.ConsultationFeeINR) * 100 // paise
	notes := map[string]string{
		"date":         date,
		"time":         cmd.Time,
		"patientName":  strings.TrimSpace(cmd.PatientName),
		"patientPhone": strings.TrimSpace(cmd.PatientPhone),
		"age":          strconv.Itoa(cmd.Age),
		"gender":       cmd.Gender,
	}

	order, err := s.gateway.CreateOrder(amount, "INR", "rcpt_"+uuid.NewString()[:13], notes)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment order created",
		zap.String("order_id", order.ID),
		zap.String("date", date),
		zap.String("time", cmd.Time),
	)
	return &OrderSummary{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency, KeyID: s.keyID}, nil
}

// VerifyAndBook checks the callback signature, reconstructs the booking
// intent from the order notes, and reserves the slot as booked_online.
// A slot lost between payment and verification surfaces as ErrSlotTaken;
// refund handling stays manual.
func (s *PaymentService) VerifyAndBook(ctx context.Context, cmd *VerifyPaymentCommand) (*BookResult, error) {
	if cmd.OrderID == "" || cmd.PaymentID == "" || cmd.Signature == "" {
		return nil, &ValidationError{Fields: []string{"razorpayOrderId, razorpayPaymentId and razorpaySignature are required"}}
	}

	if !s.gateway.VerifySignature(cmd.OrderID, cmd.PaymentID, cmd.Signature) {
		s.log.Warn("payment signature mismatch", zap.String("order_id", cmd.OrderID))
		return nil, ErrPaymentVerificationError
	}

	order, err := s.gateway.FetchOrder(cmd.OrderID)
	if err != nil {
		return nil, err
	}

	a, err := s.appointmentFromNotes(order, cmd.PaymentID)
	if err != nil {
		return nil, err
	}

	result, err := s.bookings.reserveAndNotify(ctx, a)
	if err != nil {
		return nil, err
	}

	s.log.Info("online appointment booked after payment",
		zap.String("booking_id", a.ID.String()),
		zap.String("order_id", cmd.OrderID),
		zap.String("payment_id", cmd.PaymentID),
	)
	return result, nil
}

func (s *PaymentService) appointmentFromNotes(order *payment.Order, paymentID string) (*appointment.Appointment, error) {
	notes := order.Notes
	if notes == nil {
		return nil, ErrPaymentIntentIncomplete
	}
	for _, key := range []string{"date", "time", "patientName", "patientPhone", "age", "gender"} {
		if notes[key] == "" {
			return nil, ErrPaymentIntentIncomplete
		}
	}
	age, err := strconv.Atoi(notes["age"])
	if err != nil || age <= 0 {
		return nil, ErrPaymentIntentIncomplete
	}

	return &appointment.Appointment{
		ID:           uuid.New(),
		DoctorID:     s.clinic.DoctorID,
		Date:         notes["date"],
		Time:         notes["time"],
		PatientName:  notes["patientName"],
		PatientPhone: notes["patientPhone"],
		Age:          age,
		Gender:       appointment.Gender(notes["gender"]),
		ConsultType:  schedule.ConsultOnline,
		Status:       appointment.StatusBookedOnline,
		Payment: &appointment.PaymentRecord{
			Provider:  "razorpay",
			OrderID:   order.ID,
			PaymentID: paymentID,
			Amount:    order.Amount,
			Currency:  order.Currency,
			Status:    "paid",
		},
	}, nil
}

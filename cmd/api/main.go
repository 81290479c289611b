package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/internal/domain/doctor"
	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
	v1 "github.com/drmadhusudhan/clinic-api/internal/handler/v1"
	"github.com/drmadhusudhan/clinic-api/internal/notify"
	"github.com/drmadhusudhan/clinic-api/internal/payment"
	"github.com/drmadhusudhan/clinic-api/internal/repository"
	"github.com/drmadhusudhan/clinic-api/internal/service"
	"github.com/drmadhusudhan/clinic-api/pkg/auth"
	"github.com/drmadhusudhan/clinic-api/pkg/database"
	"github.com/drmadhusudhan/clinic-api/pkg/logger"
	"github.com/drmadhusudhan/clinic-api/pkg/metrics"
	"github.com/drmadhusudhan/clinic-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if err := seed(cfg, doctorRepo, scheduleRepo, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("clinic")

	auditSvc := service.NewAuditService(auditRepo, log).
		WithMetrics(collector.AuditEntriesTotal, collector.AuditBufferDropped)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, appointmentRepo, cfg.Clinic, log)

	sender := notify.NewWhatsAppSender(cfg.WhatsApp, nil, log)
	bookingSvc := service.NewBookingService(
		availabilitySvc, appointmentRepo, sender, auditSvc,
		cfg.Clinic, cfg.WhatsApp.SendTimeout, log,
	)
	overrideSvc := service.NewOverrideService(scheduleRepo, auditSvc, cfg.Clinic, log)

	gateway := payment.NewRazorpayGateway(cfg.Razorpay)
	paymentSvc := service.NewPaymentService(gateway, bookingSvc, cfg.Clinic, cfg.Razorpay, log)

	jwtManager := auth.NewJWTManager(cfg.JWT)
	authSvc := service.NewAuthService(cfg.Admin, jwtManager, log)

	router := v1.NewRouter(cfg, db, v1.Handlers{
		Booking:  v1.NewBookingHandler(availabilitySvc, bookingSvc, collector),
		Override: v1.NewOverrideHandler(overrideSvc),
		Payment:  v1.NewPaymentHandler(paymentSvc, collector),
		Auth:     v1.NewAuthHandler(authSvc),
		Doctor:   v1.NewDoctorHandler(doctorRepo, cfg.Clinic.DoctorID),
	}, authSvc, collector, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	auditSvc.Shutdown()
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("tracer shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

// seed ensures the configured doctor row and the default weekly in-clinic
// template exist before the first request.
func seed(cfg *config.Config, doctors *repository.DoctorRepository, schedules *repository.ScheduleRepository, log *zap.Logger) error {
	ctx := context.Background()

	if err := doctors.Ensure(ctx, &doctor.Doctor{
		ID:             cfg.Clinic.DoctorID,
		Name:           cfg.Clinic.DoctorName,
		Specialization: cfg.Clinic.Specialization,
		ClinicName:     cfg.Clinic.ClinicName,
		Address:        cfg.Clinic.Address,
		PhoneNumber:    cfg.Clinic.DoctorPhone,
		Email:          cfg.Clinic.Email,
	}); err != nil {
		return err
	}

	if err := schedules.EnsureWeeklyTemplate(ctx, cfg.Clinic.DoctorID, schedule.DefaultDaySlots()); err != nil {
		return err
	}

	log.Info("seeded doctor and weekly template", zap.String("doctor_id", cfg.Clinic.DoctorID.String()))
	return nil
}

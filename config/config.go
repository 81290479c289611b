package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Clinic   ClinicConfig
	Admin    AdminConfig
	JWT      JWTConfig
	WhatsApp WhatsAppConfig
	Razorpay RazorpayConfig
	Log      LogConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s Timezone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// ClinicConfig pins down the single-doctor deployment: the doctor's identity
// is resolved from configuration once at startup, never looked up per request.
type ClinicConfig struct {
	DoctorID       uuid.UUID
	DoctorName     string
	DoctorPhone    string // WhatsApp destination for booking alerts
	Specialization string
	ClinicName     string
	Address        string
	Email          string

	// All date/weekday/"now" computations happen at this fixed offset
	// (IST by default), independent of the request's origin.
	UTCOffsetMinutes int

	// Same-day slots must start strictly more than this many minutes
	// from now to be offered.
	LeadTimeMinutes int

	ConsultationFeeINR int
}

// Location returns the clinic's fixed reference timezone.
func (c ClinicConfig) Location() *time.Location {
	return time.FixedZone("CLINIC", c.UTCOffsetMinutes*60)
}

type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
}

type WhatsAppConfig struct {
	CallMeBotAPIKey    string
	CloudAPIToken      string
	CloudPhoneNumberID string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string // e.g. whatsapp:+918431609250

	// Cap on the whole notification dispatch; booking has already
	// committed, so a slow backend must not hold the response hostage.
	SendTimeout time.Duration
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	OTLPURL     string
	SampleRate  float64
}

func Load() (*Config, error) {
	doctorID, err := uuid.Parse(getEnv("CLINIC_DOCTOR_ID", "7b1c9a52-0f3e-4f8e-9f2a-3d8f6c1a5e90"))
	if err != nil {
		return nil, fmt.Errorf("parsing CLINIC_DOCTOR_ID: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "clinic-api"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "clinic"),
			User:            getEnv("DB_USER", "clinic"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Clinic: ClinicConfig{
			DoctorID:           doctorID,
			DoctorName:         getEnv("CLINIC_DOCTOR_NAME", "Dr. K. Madhusudana"),
			DoctorPhone:        getEnv("CLINIC_DOCTOR_PHONE", "918762624188"),
			Specialization:     getEnv("CLINIC_SPECIALIZATION", "General Physician | Cardiologist"),
			ClinicName:         getEnv("CLINIC_NAME", "Dr. Madhusudhan Clinic"),
			Address:            getEnv("CLINIC_ADDRESS", ""),
			Email:              getEnv("CLINIC_EMAIL", ""),
			UTCOffsetMinutes:   getEnvInt("CLINIC_UTC_OFFSET_MINUTES", 330),
			LeadTimeMinutes:    getEnvInt("CLINIC_LEAD_TIME_MINUTES", 15),
			ConsultationFeeINR: getEnvInt("CONSULTATION_FEE_INR", 500),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@clinic.local"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TTL", 12*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "clinic-api"),
		},
		WhatsApp: WhatsAppConfig{
			CallMeBotAPIKey:    getEnv("CALLMEBOT_API_KEY", ""),
			CloudAPIToken:      getEnv("WHATSAPP_CLOUD_API_TOKEN", ""),
			CloudPhoneNumberID: getEnv("WHATSAPP_CLOUD_PHONE_NUMBER_ID", ""),
			TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioFromNumber:   getEnv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+918431609250"),
			SendTimeout:        getEnvDuration("WHATSAPP_SEND_TIMEOUT", 8*time.Second),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "clinic-api"),
			OTLPURL:     getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces production security requirements.
func validate(cfg *Config) error {
	var errs []string

	if cfg.JWT.Secret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(cfg.JWT.Secret) < 32 && cfg.App.Environment == "production" {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}

	if cfg.Admin.PasswordHash == "" && cfg.App.Environment == "production" {
		errs = append(errs, "ADMIN_PASSWORD_HASH is required in production")
	}

	if cfg.Database.Password == "" && cfg.App.Environment != "development" {
		errs = append(errs, "DB_PASSWORD is required in non-development environments")
	}

	if cfg.Database.SSLMode == "disable" && cfg.App.Environment == "production" {
		errs = append(errs, "DB_SSLMODE=disable is not allowed in production")
	}

	if cfg.Clinic.LeadTimeMinutes < 0 {
		errs = append(errs, "CLINIC_LEAD_TIME_MINUTES must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

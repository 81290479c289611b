package service

import (
	"errors"
	"strings"
)

var (
	ErrForbidden                 = errors.New("forbidden: insufficient permissions")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrPaymentVerificationError  = errors.New("invalid payment signature")
	ErrPaymentIntentIncomplete   = errors.New("order notes incomplete, cannot finalize booking")
	ErrPaymentOnlineConsultsOnly = errors.New("payment is only required for online consultations")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      string
}

package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/internal/domain/audit"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *audit.Log) error
}

type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	entries chan *audit.Log
	done    chan struct{}

	written prometheus.Counter
	dropped prometheus.Counter
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		entries: make(chan *audit.Log, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// WithMetrics attaches the audit counters. Optional so tests can run the
// service without touching the global prometheus registry.
func (s *AuditService) WithMetrics(written, dropped prometheus.Counter) *AuditService {
	s.written = written
	s.dropped = dropped
	return s
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	al := &audit.Log{
		Actor:        entry.Actor,
		Action:       audit.Action(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    entry.IPAddress,
		Changes:      entry.Changes,
	}

	select {
	case s.entries <- al:
	default:
		if s.dropped != nil {
			s.dropped.Inc()
		}
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("resource", entry.ResourceType),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else if s.written != nil {
			s.written.Inc()
		}
		cancel()
	}
}

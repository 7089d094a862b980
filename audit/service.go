// audit/service.go
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	logger "github.com/toolgate/api/logging"
	pdp_model "github.com/toolgate/api/pdp/model"
)

// Service accepts enforcement results fire-and-forget and serves history
// queries. Record never blocks the caller: results are queued to a worker
// and dropped (with a log line) when the buffer is full, so a slow sink can
// never add enforcement latency or change a decision.
type Service interface {
	Record(result *pdp_model.EnforcementResult)
	GetEnforcementHistory(ctx context.Context, filter pdp_model.EnforcementHistoryFilter, requestingUser pdp_model.UserIdentity, isAdmin bool) ([]pdp_model.EnforcementResult, error)
	Close()
}

type service struct {
	repo  Repository
	queue chan *pdp_model.EnforcementResult
	done  chan struct{}
}

func NewService(repo Repository, bufferSize int) Service {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	s := &service{
		repo:  repo,
		queue: make(chan *pdp_model.EnforcementResult, bufferSize),
		done:  make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *service) Record(result *pdp_model.EnforcementResult) {
	select {
	case s.queue <- result:
	default:
		logger.Warn("Audit queue full, dropping enforcement result",
			zap.String("correlationID", result.CorrelationID),
			zap.String("userID", result.UserID))
	}
}

func (s *service) worker() {
	defer close(s.done)
	for result := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := s.repo.RecordEnforcementResult(ctx, result)
		cancel()
		if err != nil {
			// Swallowed by design: audit failures never influence decisions
			// and are never retried synchronously.
			logger.Error("Failed to record enforcement result",
				zap.Error(err),
				zap.String("correlationID", result.CorrelationID))
		}
	}
}

// GetEnforcementHistory serves the audit query surface. Non-admin callers
// are restricted to their own records regardless of the requested filter.
func (s *service) GetEnforcementHistory(ctx context.Context, filter pdp_model.EnforcementHistoryFilter, requestingUser pdp_model.UserIdentity, isAdmin bool) ([]pdp_model.EnforcementResult, error) {
	if !isAdmin {
		filter.UserID = requestingUser.Sub
	}
	return s.repo.QueryEnforcementResults(ctx, filter)
}

// Close drains the queue and stops the worker.
func (s *service) Close() {
	close(s.queue)
	<-s.done
}

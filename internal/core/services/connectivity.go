package services

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure ConnectivityService implements the interface.
var _ driving.ConnectivityService = (*ConnectivityService)(nil)

// ConnectivityService probes the backend and remembers the latest result.
// A connected state only proves the network path is open.
type ConnectivityService struct {
	mu       sync.RWMutex
	prober   driven.Prober
	settings driving.BackendSettingsService
	state    domain.ConnectivityState
	seq      uint64
}

// NewConnectivityService creates a service in the idle state. When settings
// is non-nil the service re-probes whenever the active endpoint changes.
// The re-probe runs in the background so the settings call that triggered
// it returns at once; the state reads as checking until it finishes.
func NewConnectivityService(prober driven.Prober, settings driving.BackendSettingsService) *ConnectivityService {
	s := &ConnectivityService{
		prober:   prober,
		settings: settings,
		state:    domain.IdleConnectivity(),
	}
	if settings != nil {
		settings.OnActiveEndpointChange(s.recheck)
	}
	return s
}

func (s *ConnectivityService) recheck(endpoint string) {
	endpoint = strings.TrimSpace(endpoint)
	seq, _, ok := s.start(endpoint)
	if !ok {
		return
	}
	go s.probe(context.Background(), seq, endpoint)
}

// State returns the latest recorded state.
func (s *ConnectivityService) State() domain.ConnectivityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CheckActive probes the active endpoint of the current settings.
func (s *ConnectivityService) CheckActive(ctx context.Context) domain.ConnectivityState {
	endpoint := ""
	if s.settings != nil {
		endpoint = s.settings.ActiveEndpoint()
	}
	return s.Check(ctx, endpoint)
}

// Check probes endpoint. An empty endpoint fails immediately without any
// network I/O. Only the most recent check may record its result.
func (s *ConnectivityService) Check(ctx context.Context, endpoint string) domain.ConnectivityState {
	endpoint = strings.TrimSpace(endpoint)
	seq, state, ok := s.start(endpoint)
	if !ok {
		return state
	}
	return s.probe(ctx, seq, endpoint)
}

// start claims a sequence number and records the checking state. It returns
// false with the final state when endpoint is empty.
func (s *ConnectivityService) start(endpoint string) (uint64, domain.ConnectivityState, bool) {
	if endpoint == "" {
		return 0, s.record(s.begin(), domain.ConnectivityState{
			Status:  domain.ConnectionError,
			Message: domain.MessageEmptyEndpoint,
		}), false
	}

	seq := s.begin()
	return seq, s.record(seq, domain.ConnectivityState{Status: domain.ConnectionChecking, Message: domain.MessageChecking}), true
}

func (s *ConnectivityService) probe(ctx context.Context, seq uint64, endpoint string) domain.ConnectivityState {
	if err := s.prober.Probe(ctx, endpoint); err != nil {
		logger.L().Warn("connectivity probe failed", zap.String("endpoint", endpoint), zap.Error(err))
		return s.record(seq, domain.ConnectivityState{Status: domain.ConnectionError, Message: domain.MessageUnreachable})
	}
	return s.record(seq, domain.ConnectivityState{Status: domain.ConnectionConnected, Message: domain.MessageReachable})
}

func (s *ConnectivityService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// record stores state unless a newer check has started, and returns state.
func (s *ConnectivityService) record(seq uint64, state domain.ConnectivityState) domain.ConnectivityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq {
		s.state = state
	}
	return state
}

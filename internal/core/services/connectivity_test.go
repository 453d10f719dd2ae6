package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func TestConnectivityService_StartsIdle(t *testing.T) {
	service := NewConnectivityService(&fakeProber{}, nil)

	assert.Equal(t, domain.IdleConnectivity(), service.State())
}

func TestConnectivityService_Reachable(t *testing.T) {
	prober := &fakeProber{}
	service := NewConnectivityService(prober, nil)

	state := service.Check(context.Background(), " http://box/convert ")

	assert.Equal(t, domain.ConnectionConnected, state.Status)
	assert.Equal(t, domain.MessageReachable, state.Message)
	assert.Equal(t, state, service.State())
	assert.Equal(t, []string{"http://box/convert"}, prober.Calls())
}

func TestConnectivityService_Unreachable(t *testing.T) {
	prober := &fakeProber{errs: map[string]error{"http://down": errors.New("refused")}}
	service := NewConnectivityService(prober, nil)

	state := service.Check(context.Background(), "http://down")

	assert.Equal(t, domain.ConnectionError, state.Status)
	assert.Equal(t, domain.MessageUnreachable, state.Message)
}

func TestConnectivityService_EmptyEndpointSkipsProbe(t *testing.T) {
	prober := &fakeProber{}
	service := NewConnectivityService(prober, nil)

	state := service.Check(context.Background(), "   ")

	assert.Equal(t, domain.ConnectionError, state.Status)
	assert.Equal(t, domain.MessageEmptyEndpoint, state.Message)
	assert.Empty(t, prober.Calls())
}

func TestConnectivityService_ChecksWhileProbing(t *testing.T) {
	var during domain.ConnectivityState
	var service *ConnectivityService
	prober := &fakeProber{before: func(string) { during = service.State() }}
	service = NewConnectivityService(prober, nil)

	service.Check(context.Background(), "http://box")

	assert.Equal(t, domain.ConnectionChecking, during.Status)
	assert.Equal(t, domain.MessageChecking, during.Message)
}

func TestConnectivityService_StaleResultDiscarded(t *testing.T) {
	var service *ConnectivityService
	prober := &fakeProber{errs: map[string]error{"http://old": errors.New("refused")}}
	prober.before = func(endpoint string) {
		// A newer check starts while the old one is in flight.
		if endpoint == "http://old" {
			service.Check(context.Background(), "http://new")
		}
	}
	service = NewConnectivityService(prober, nil)

	old := service.Check(context.Background(), "http://old")

	assert.Equal(t, domain.ConnectionError, old.Status)
	assert.Equal(t, domain.ConnectionConnected, service.State().Status)
}

func TestConnectivityService_RechecksOnEndpointChange(t *testing.T) {
	settings, _ := newTestSettings(t)
	prober := &fakeProber{}
	service := NewConnectivityService(prober, settings)

	require.NoError(t, settings.SetJobAPIEndpoint("https://jobs/new"))

	assert.Eventually(t, func() bool {
		return service.State().Status == domain.ConnectionConnected
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"https://jobs/new"}, prober.Calls())

	state := service.CheckActive(context.Background())
	assert.Equal(t, domain.ConnectionConnected, state.Status)
	assert.Len(t, prober.Calls(), 2)
}

func TestConnectivityService_EndpointChangeDoesNotBlockSetter(t *testing.T) {
	settings, _ := newTestSettings(t)
	release := make(chan struct{})
	prober := &fakeProber{before: func(string) { <-release }}
	service := NewConnectivityService(prober, settings)

	done := make(chan error, 1)
	go func() { done <- settings.SetJobAPIEndpoint("http://slow/convert") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		close(release)
		t.Fatal("setter blocked on the connectivity check")
	}
	assert.Equal(t, domain.ConnectionChecking, service.State().Status)

	close(release)
	assert.Eventually(t, func() bool {
		return service.State().Status == domain.ConnectionConnected
	}, time.Second, 5*time.Millisecond)
}

func TestConnectivityService_EndpointChangeToEmptyFailsAtOnce(t *testing.T) {
	settings, _ := newTestSettings(t)
	prober := &fakeProber{}
	service := NewConnectivityService(prober, settings)

	require.NoError(t, settings.SetJobAPIEndpoint("   "))

	assert.Equal(t, domain.ConnectionError, service.State().Status)
	assert.Equal(t, domain.MessageEmptyEndpoint, service.State().Message)
	assert.Empty(t, prober.Calls())
}

func TestConnectivityService_ManualCheckSupersedesBackgroundRecheck(t *testing.T) {
	settings, _ := newTestSettings(t)
	release := make(chan struct{})
	prober := &fakeProber{errs: map[string]error{"http://old/convert": errors.New("refused")}}
	prober.before = func(endpoint string) {
		if endpoint == "http://old/convert" {
			<-release
		}
	}
	service := NewConnectivityService(prober, settings)

	require.NoError(t, settings.SetJobAPIEndpoint("http://old/convert"))
	state := service.Check(context.Background(), "http://new/convert")
	require.Equal(t, domain.ConnectionConnected, state.Status)

	close(release)
	assert.Eventually(t, func() bool { return len(prober.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.ConnectionConnected, service.State().Status)
}

package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumirror/mirror-api/internal/models"
)

type fakeSettings struct {
	mu      sync.Mutex
	enabled bool
	err     error
	calls   int
}

func (f *fakeSettings) GetAccountSettings(context.Context) (*models.AccountSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.AccountSettings{OfflineModeEnabled: f.enabled}, nil
}

func (f *fakeSettings) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSettings) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestFlagProviderFetchesWithoutCache(t *testing.T) {
	api := &fakeSettings{enabled: true}
	provider := NewFlagProvider(api, nil, 0, nil)

	require.True(t, provider.OfflineModeEnabled(context.Background()))
	require.True(t, provider.OfflineModeEnabled(context.Background()))
	require.Equal(t, 2, api.callCount())
}

func TestFlagProviderConcurrentLookups(t *testing.T) {
	api := &fakeSettings{enabled: true}
	provider := NewFlagProvider(api, nil, 0, nil)

	// Lookups run on request goroutines; half of them hit the fetch-failure
	// path so reads of the last known value interleave with writes.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					api.setErr(nil)
				} else {
					api.setErr(errors.New("lms unreachable"))
				}
				provider.OfflineModeEnabled(context.Background())
			}
		}()
	}
	wg.Wait()

	require.True(t, provider.OfflineModeEnabled(context.Background()))
}

func TestFlagProviderFallsBackToLastKnownValue(t *testing.T) {
	api := &fakeSettings{enabled: true}
	provider := NewFlagProvider(api, nil, 0, nil)

	require.True(t, provider.OfflineModeEnabled(context.Background()))

	api.setErr(errors.New("lms unreachable"))
	require.True(t, provider.OfflineModeEnabled(context.Background()))
}

func TestFlagProviderDefaultsToDisabledWhenNeverFetched(t *testing.T) {
	api := &fakeSettings{err: errors.New("lms unreachable")}
	provider := NewFlagProvider(api, nil, 0, nil)

	require.False(t, provider.OfflineModeEnabled(context.Background()))
}

func TestStaticPolicy(t *testing.T) {
	p := Static{Online: true, OfflineEnabled: true}
	require.True(t, p.IsOnline())
	require.True(t, p.OfflineModeEnabled(context.Background()))
}

func TestCheckerStartsOptimistic(t *testing.T) {
	checker := NewChecker("http://127.0.0.1:1", 0, 0, nil)
	require.True(t, checker.IsOnline())

	checker.SetOnline(false)
	require.False(t, checker.IsOnline())
}

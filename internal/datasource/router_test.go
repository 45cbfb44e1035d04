package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumirror/mirror-api/internal/connectivity"
)

type stubSource struct{ name string }

func TestNewRouterRequiresBothSourcesAndPolicy(t *testing.T) {
	local := &stubSource{name: "local"}
	network := &stubSource{name: "network"}
	policy := connectivity.Static{}

	_, err := NewRouter[*stubSource](nil, network, policy)
	require.Error(t, err)

	_, err = NewRouter[*stubSource](local, nil, policy)
	require.Error(t, err)

	_, err = NewRouter[*stubSource](local, network, nil)
	require.Error(t, err)

	router, err := NewRouter[*stubSource](local, network, policy)
	require.NoError(t, err)
	require.NotNil(t, router)
}

func TestRouterSelectionMatrix(t *testing.T) {
	local := &stubSource{name: "local"}
	network := &stubSource{name: "network"}

	cases := []struct {
		name           string
		offlineEnabled bool
		online         bool
		want           *stubSource
	}{
		{"offline mode disabled while online", false, true, network},
		{"offline mode disabled while offline", false, false, network},
		{"offline mode enabled while online", true, true, network},
		{"offline mode enabled while offline", true, false, local},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, err := NewRouter[*stubSource](local, network, connectivity.Static{
				Online:         tc.online,
				OfflineEnabled: tc.offlineEnabled,
			})
			require.NoError(t, err)
			require.Same(t, tc.want, router.DataSource(context.Background()))
		})
	}
}

func TestRouterEvaluatesPolicyFreshOnEveryCall(t *testing.T) {
	local := &stubSource{name: "local"}
	network := &stubSource{name: "network"}

	policy := &togglePolicy{online: true, offlineEnabled: true}
	router, err := NewRouter[*stubSource](local, network, policy)
	require.NoError(t, err)

	require.Same(t, network, router.DataSource(context.Background()))
	policy.online = false
	require.Same(t, local, router.DataSource(context.Background()))
	policy.online = true
	require.Same(t, network, router.DataSource(context.Background()))
}

type togglePolicy struct {
	online         bool
	offlineEnabled bool
}

func (p *togglePolicy) IsOnline() bool                          { return p.online }
func (p *togglePolicy) OfflineModeEnabled(context.Context) bool { return p.offlineEnabled }

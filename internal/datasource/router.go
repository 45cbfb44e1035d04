// Package datasource defines per-feature read capabilities, implemented once
// against the LMS API and once against the local mirror, plus the router that
// picks between them per call.
package datasource

import (
	"context"
	"errors"

	"github.com/edumirror/mirror-api/internal/connectivity"
)

// Router selects the data source answering a read. It performs no I/O itself;
// callers pick the source, then invoke the matching method on it, so the
// failure semantics of the underlying call are untouched. There is no
// retry-then-fallback: a network error while online surfaces to the caller.
type Router[D comparable] struct {
	local   D
	network D
	policy  connectivity.Policy
}

// NewRouter builds a router from both sources and a policy. A missing source
// or policy is a programming error and fails construction.
func NewRouter[D comparable](local, network D, policy connectivity.Policy) (*Router[D], error) {
	var zero D
	if local == zero {
		return nil, errors.New("datasource: local source is required")
	}
	if network == zero {
		return nil, errors.New("datasource: network source is required")
	}
	if policy == nil {
		return nil, errors.New("datasource: connectivity policy is required")
	}
	return &Router[D]{local: local, network: network, policy: policy}, nil
}

// DataSource decides which source answers, evaluated fresh on every call:
//
//  1. offline mode disabled for the account: always the network source, even
//     while unreachable. Accounts without offline mode must not silently read
//     stale local data; their reads fail with the network error instead.
//  2. device online: the network source.
//  3. otherwise: the local mirror.
func (r *Router[D]) DataSource(ctx context.Context) D {
	if !r.policy.OfflineModeEnabled(ctx) {
		return r.network
	}
	if r.policy.IsOnline() {
		return r.network
	}
	return r.local
}

// Package connectivity decides when the local mirror may answer reads. It
// combines instantaneous device reachability with the account-level
// offline-mode feature flag fetched from the LMS and cached in Redis.
package connectivity

import "context"

// Policy reports network reachability and whether offline mode is enabled
// for the account. IsOnline must be non-blocking; OfflineModeEnabled may hit
// the flag cache.
type Policy interface {
	IsOnline() bool
	OfflineModeEnabled(ctx context.Context) bool
}

// Static is a fixed policy, useful for tests and forced-offline tooling.
type Static struct {
	Online         bool
	OfflineEnabled bool
}

// IsOnline implements Policy.
func (s Static) IsOnline() bool { return s.Online }

// OfflineModeEnabled implements Policy.
func (s Static) OfflineModeEnabled(context.Context) bool { return s.OfflineEnabled }

// policy composes the live checker and flag provider.
type policy struct {
	checker *Checker
	flags   *FlagProvider
}

// NewPolicy combines a reachability checker and a flag provider.
func NewPolicy(checker *Checker, flags *FlagProvider) Policy {
	return &policy{checker: checker, flags: flags}
}

func (p *policy) IsOnline() bool {
	return p.checker.IsOnline()
}

func (p *policy) OfflineModeEnabled(ctx context.Context) bool {
	return p.flags.OfflineModeEnabled(ctx)
}

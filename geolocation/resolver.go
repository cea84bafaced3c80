package geolocation

import (
	"sync"

	"github.com/golang/glog"
)

// Resolver serializes one-shot current-location lookups over a
// LocationProvider.
//
// Only one request may be in flight at a time: a new Current call stops any
// pending updates and supersedes the previous request, whose callback will
// never fire. The first fix received settles the active request. Platform
// authorization is requested at most once per Resolver.
type Resolver struct {
	provider LocationProvider

	mu        sync.Mutex
	pending   func(loc *Location)
	requested bool
}

// NewResolver creates a Resolver over the host's location provider.
func NewResolver(provider LocationProvider) *Resolver {
	return &Resolver{provider: provider}
}

// Current delivers the current location to fn exactly once, or nil when no
// fix could be obtained. A failed fix falls back to the provider's last-known
// location. fn runs on the provider's delivery context.
func (r *Resolver) Current(fn func(loc *Location)) {
	r.mu.Lock()
	r.provider.StopUpdates()
	r.pending = fn
	if !r.requested {
		r.requested = true
		r.provider.RequestAuthorization()
	}
	r.mu.Unlock()

	// Every subscription routes through deliver, which reads the pending
	// callback at delivery time. Concurrent Current calls may race their
	// StartUpdates, but whichever subscription the provider keeps, fixes
	// reach the most recent request.
	r.provider.StartUpdates(r.deliver)
}

// deliver settles the active request with the first fix received. Updates
// arriving with no request pending are ignored.
func (r *Resolver) deliver(loc *Location, err error) {
	r.mu.Lock()
	fn := r.pending
	r.pending = nil
	r.mu.Unlock()
	if fn == nil {
		return
	}
	r.provider.StopUpdates()
	if err != nil {
		glog.V(2).Infof("geolocation: location update failed: %v", err)
		loc = r.provider.LastKnown()
	}
	fn(loc)
}

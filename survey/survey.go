// Package survey owns the survey lifecycle: availability check, presentation
// inside an embedded content surface, and exactly one terminal result per
// presentation attempt.
package survey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/survata/survata-go/availability"
	"github.com/survata/survata-go/bridge"
	"github.com/survata/survata-go/errortypes"
	"github.com/survata/survata-go/postalcode"
)

// Verbose enables debug traces to the sink registered with SetDebugSink.
var Verbose = true

// DefaultPollPeriod is the presentation connectivity poll interval.
const DefaultPollPeriod = 2 * time.Second

// Deps are the collaborators one Survey is wired with. Client, Connectivity
// and Host are required; PostalCodes may be nil when options never request a
// postal code.
type Deps struct {
	// Client performs the availability check.
	Client *availability.Client

	// PostalCodes resolves the postal code attached to the check.
	PostalCodes *postalcode.Resolver

	// Connectivity reports whether the network is reachable right now.
	Connectivity func() bool

	// Host is the embedded content surface presenting the survey wall.
	Host bridge.EmbeddedHost

	// Template is the widget HTML template carrying the three placeholders.
	Template string

	// Loader is the binary loader asset substituted base64-encoded.
	Loader []byte

	// Clock drives the connectivity poll ticker. Nil means the system clock.
	Clock clock.Clock

	// PollPeriod overrides DefaultPollPeriod when positive.
	PollPeriod time.Duration
}

// Survey orchestrates one survey's lifecycle. Check availability right before
// presenting: availability changes over time, and presenting on anything but
// a fresh Available outcome is not guaranteed to succeed.
type Survey struct {
	options Options
	deps    Deps

	mu         sync.Mutex
	checked    bool
	outcome    availability.Outcome
	postalCode string
	session    *session
	debugSink  func(line string)
}

// New validates the options and returns an orchestrator for one survey.
func New(options Options, deps Deps) (*Survey, error) {
	if options.Publisher == "" {
		return nil, &errortypes.BadInput{Message: "survey: publisher must not be empty"}
	}
	if deps.Client == nil || deps.Connectivity == nil || deps.Host == nil {
		return nil, &errortypes.BadInput{Message: "survey: client, connectivity and host are required"}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.PollPeriod <= 0 {
		deps.PollPeriod = DefaultPollPeriod
	}
	return &Survey{options: options, deps: deps}, nil
}

// SetDebugSink registers a sink receiving human-readable trace lines while
// Verbose is enabled.
func (s *Survey) SetDebugSink(fn func(line string)) {
	s.mu.Lock()
	s.debugSink = fn
	s.mu.Unlock()
}

func (s *Survey) debugf(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	glog.V(2).Info(line)
	s.mu.Lock()
	sink := s.debugSink
	s.mu.Unlock()
	if sink != nil {
		sink(line)
	}
}

// CheckAvailability determines whether a survey can be presented for the
// options, delivering exactly one outcome to fn. Without connectivity the
// outcome is Error and no request is sent. When the options ask for a postal
// code and none is supplied explicitly, resolution runs first; every
// resolution failure degrades to checking without a code.
//
// Re-checking is the caller's responsibility: Present does not re-validate
// availability, only connectivity.
func (s *Survey) CheckAvailability(ctx context.Context, fn func(availability.Outcome)) {
	if !s.deps.Connectivity() {
		s.debugf("survey: no connectivity, availability check aborted")
		fn(availability.Error)
		return
	}
	if s.options.SendPostalCode && s.deps.PostalCodes != nil {
		s.deps.PostalCodes.Resolve(ctx, s.options.PostalCode, true, func(code string, ok bool) {
			s.mu.Lock()
			s.postalCode = code
			s.mu.Unlock()
			s.check(ctx, code, fn)
		})
		return
	}
	s.check(ctx, "", fn)
}

func (s *Survey) check(ctx context.Context, postalCode string, fn func(availability.Outcome)) {
	request := s.options.forAPI(postalCode)
	s.debugf("survey: checking availability for publisher %s", s.options.Publisher)
	go func() {
		outcome := s.deps.Client.Check(ctx, request)
		s.mu.Lock()
		s.checked = true
		s.outcome = outcome
		s.mu.Unlock()
		s.debugf("survey: availability %s", outcome)
		fn(outcome)
	}()
}

// Present loads the survey wall into the embedded host and runs it until a
// terminal result, delivered exactly once to fn. Presenting before a
// completed availability check, or without connectivity, resolves immediately
// to NetworkNotAvailable without creating a session.
func (s *Survey) Present(fn func(Result)) {
	s.mu.Lock()
	checked := s.checked
	postalCode := s.postalCode
	s.mu.Unlock()

	if !checked || !s.deps.Connectivity() {
		s.debugf("survey: cannot present, availability unchecked or offline")
		fn(NetworkNotAvailable)
		return
	}

	sess, err := newSession(s, postalCode, fn)
	if err != nil {
		glog.Errorf("survey: cannot build widget: %v", err)
		fn(NetworkNotAvailable)
		return
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	sess.start()
}

// Cancel delivers the explicit user cancel signal to the active presentation.
// Without an active presentation it is a no-op.
func (s *Survey) Cancel() {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess != nil {
		sess.cancel()
	}
}

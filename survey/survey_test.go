package survey

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/survata/survata-go/availability"
	"github.com/survata/survata-go/bridge"
	"github.com/survata/survata-go/geolocation"
	"github.com/survata/survata-go/postalcode"
)

type fakeHost struct {
	mu           sync.Mutex
	routes       map[string]func(payload []byte)
	html         string
	interviews   int
	dismissShown bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{routes: make(map[string]func(payload []byte))}
}

func (h *fakeHost) LoadHTML(html string) {
	h.mu.Lock()
	h.html = html
	h.mu.Unlock()
}

func (h *fakeHost) StartInterview() {
	h.mu.Lock()
	h.interviews++
	h.mu.Unlock()
}

func (h *fakeHost) ShowDismiss() {
	h.mu.Lock()
	h.dismissShown = true
	h.mu.Unlock()
}

func (h *fakeHost) Subscribe(name string, fn func(payload []byte)) {
	h.mu.Lock()
	h.routes[name] = fn
	h.mu.Unlock()
}

func (h *fakeHost) Unsubscribe(name string) {
	h.mu.Lock()
	delete(h.routes, name)
	h.mu.Unlock()
}

func (h *fakeHost) emit(name string, payload []byte) {
	h.mu.Lock()
	fn, ok := h.routes[name]
	h.mu.Unlock()
	if ok {
		fn(payload)
	}
}

func (h *fakeHost) routeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.routes)
}

func (h *fakeHost) dismissVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dismissShown
}

func (h *fakeHost) interviewStarts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interviews
}

type harness struct {
	survey  *Survey
	host    *fakeHost
	clock   *clock.Mock
	online  *atomic.Bool
	server  *httptest.Server
	results chan Result
}

func newHarness(t *testing.T, options Options, responseBody string) *harness {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, responseBody)
	}))
	t.Cleanup(server.Close)

	host := newFakeHost()
	mock := clock.NewMock()
	online := &atomic.Bool{}
	online.Store(true)

	s, err := New(options, Deps{
		Client:       availability.NewClient(server.URL, "test-app Survata/Go/1.0", 0, nil),
		Connectivity: online.Load,
		Host:         host,
		Template:     `<html>[PUBLISHER_ID] [OPTION] [LOADER_BASE64]</html>`,
		Loader:       []byte{1, 2, 3},
		Clock:        mock,
	})
	require.NoError(t, err)

	return &harness{
		survey:  s,
		host:    host,
		clock:   mock,
		online:  online,
		server:  server,
		results: make(chan Result, 1),
	}
}

func (h *harness) checkAvailability(t *testing.T) availability.Outcome {
	t.Helper()
	outcomes := make(chan availability.Outcome, 1)
	h.survey.CheckAvailability(context.Background(), func(o availability.Outcome) { outcomes <- o })
	select {
	case outcome := <-outcomes:
		return outcome
	case <-time.After(5 * time.Second):
		t.Fatal("availability check did not complete")
		return availability.Error
	}
}

func (h *harness) present(t *testing.T) {
	t.Helper()
	h.survey.Present(func(r Result) { h.results <- r })
}

func (h *harness) result(t *testing.T) Result {
	t.Helper()
	select {
	case r := <-h.results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no terminal result delivered")
		return NetworkNotAvailable
	}
}

func (h *harness) assertNoFurtherResult(t *testing.T) {
	t.Helper()
	select {
	case r := <-h.results:
		t.Fatalf("unexpected second terminal result %s", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewRequiresPublisher(t *testing.T) {
	_, err := New(Options{}, Deps{})
	assert.Error(t, err)
}

func TestCheckAvailabilityOffline(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	h.online.Store(false)

	assert.Equal(t, availability.Error, h.checkAvailability(t))
}

func TestCheckAvailabilityOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected availability.Outcome
	}{
		{name: "available", body: `{"valid": true}`, expected: availability.Available},
		{name: "not available", body: `{"valid": false}`, expected: availability.NotAvailable},
		{name: "error code", body: `{"errorCode": 7}`, expected: availability.Error},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, Options{Publisher: "pub-1"}, test.body)
			assert.Equal(t, test.expected, h.checkAvailability(t))
		})
	}
}

func TestPresentWithoutCheck(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)

	h.present(t)
	assert.Equal(t, NetworkNotAvailable, h.result(t))
	assert.Zero(t, h.host.routeCount(), "no session may be created")
}

func TestPresentOffline(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.online.Store(false)
	h.present(t)
	assert.Equal(t, NetworkNotAvailable, h.result(t))
	assert.Zero(t, h.host.routeCount(), "no session may be created")
}

func TestMonetizableInterviewCompletes(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1", Brand: "Acme"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	assert.Contains(t, h.host.html, "pub-1", "widget HTML carries the publisher id")

	h.host.emit("load", []byte(`{"status": "monetizable"}`))
	assert.Eventually(t, h.host.dismissVisible, time.Second, 5*time.Millisecond,
		"dismiss affordance revealed on monetizable load")

	h.host.emit("ready", nil)
	assert.Eventually(t, func() bool { return h.host.interviewStarts() == 1 }, time.Second, 5*time.Millisecond)

	h.host.emit("interviewComplete", nil)
	assert.Equal(t, Completed, h.result(t))
	assert.Zero(t, h.host.routeCount(), "bridge detached after terminal result")
}

func TestNonMonetizableLoadEarnsCredit(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.host.emit("load", []byte(`{"status": "other"}`))
	assert.Equal(t, CreditEarned, h.result(t))

	// a late interviewComplete must be discarded
	h.host.emit("interviewComplete", nil)
	h.assertNoFurtherResult(t)
}

func TestMalformedLoadPayloadIgnored(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.host.emit("load", []byte(`"loading"`))
	h.assertNoFurtherResult(t)

	// the session stays alive and still reaches a terminal result
	h.host.emit("load", []byte(`{"status": "monetizable"}`))
	h.host.emit("interviewComplete", nil)
	assert.Equal(t, Completed, h.result(t))
}

func TestInterviewSkip(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.host.emit("load", []byte(`{"status": "monetizable"}`))
	h.host.emit("interviewSkip", nil)
	assert.Equal(t, Skipped, h.result(t))
}

func TestNoSurveyAvailable(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.host.emit("noSurveyAvailable", nil)
	assert.Equal(t, NoSurveyAvailable, h.result(t))
}

func TestUserCancel(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.host.emit("load", []byte(`{"status": "monetizable"}`))
	h.survey.Cancel()
	assert.Equal(t, Canceled, h.result(t))

	h.survey.Cancel()
	h.assertNoFurtherResult(t)
}

func TestConnectivityLossWhilePresenting(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	detachedAtDelivery := make(chan int, 1)
	h.survey.Present(func(r Result) {
		detachedAtDelivery <- h.host.routeCount()
		h.results <- r
	})

	h.online.Store(false)
	h.clock.Add(DefaultPollPeriod)

	assert.Equal(t, NetworkNotAvailable, h.result(t))
	assert.Zero(t, <-detachedAtDelivery, "bridge must be detached before the result is delivered")
}

func TestConnectivityPollKeepsRunningWhileOnline(t *testing.T) {
	h := newHarness(t, Options{Publisher: "pub-1"}, `{"valid": true}`)
	require.Equal(t, availability.Available, h.checkAvailability(t))

	h.present(t)
	h.clock.Add(DefaultPollPeriod)
	h.clock.Add(DefaultPollPeriod)
	h.assertNoFurtherResult(t)

	h.host.emit("interviewComplete", nil)
	assert.Equal(t, Completed, h.result(t))
}

func TestExplicitPostalCodeSentWithCheck(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"valid": true}`)
	}))
	defer server.Close()

	online := &atomic.Bool{}
	online.Store(true)
	provider := &stubProvider{status: geolocation.AuthorizationDenied}
	resolver := postalcode.NewResolver(emptyCache{}, geolocation.NewResolver(provider), provider, stubGeocoder{}, "US", 0)

	s, err := New(Options{Publisher: "pub-1", SendPostalCode: true, PostalCode: "94103"}, Deps{
		Client:       availability.NewClient(server.URL, "ua", 0, nil),
		PostalCodes:  resolver,
		Connectivity: online.Load,
		Host:         newFakeHost(),
	})
	require.NoError(t, err)

	outcomes := make(chan availability.Outcome, 1)
	s.CheckAvailability(context.Background(), func(o availability.Outcome) { outcomes <- o })
	require.Equal(t, availability.Available, <-outcomes)

	assert.JSONEq(t, `{"publisherUuid":"pub-1","postalCode":"94103"}`, string(body))
}

func TestUnresolvedPostalCodeDegrades(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"valid": true}`)
	}))
	defer server.Close()

	online := &atomic.Bool{}
	online.Store(true)
	provider := &stubProvider{status: geolocation.AuthorizationDenied}
	resolver := postalcode.NewResolver(emptyCache{}, geolocation.NewResolver(provider), provider, stubGeocoder{}, "US", 0)

	s, err := New(Options{Publisher: "pub-1", SendPostalCode: true}, Deps{
		Client:       availability.NewClient(server.URL, "ua", 0, nil),
		PostalCodes:  resolver,
		Connectivity: online.Load,
		Host:         newFakeHost(),
	})
	require.NoError(t, err)

	outcomes := make(chan availability.Outcome, 1)
	s.CheckAvailability(context.Background(), func(o availability.Outcome) { outcomes <- o })
	require.Equal(t, availability.Available, <-outcomes)

	assert.JSONEq(t, `{"publisherUuid":"pub-1"}`, string(body), "check proceeds without a postal code")
}

type emptyCache struct{}

func (emptyCache) Get(key string, maxAge time.Duration) ([]byte, bool) { return nil, false }

func (emptyCache) Put(key string, payload []byte) {}

type stubProvider struct {
	status geolocation.AuthorizationStatus
}

func (p *stubProvider) AuthorizationStatus() geolocation.AuthorizationStatus { return p.status }

func (p *stubProvider) RequestAuthorization() {}

func (p *stubProvider) StartUpdates(fn geolocation.UpdateFunc) {}

func (p *stubProvider) StopUpdates() {}

func (p *stubProvider) LastKnown() *geolocation.Location { return nil }

type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(ctx context.Context, loc geolocation.Location) ([]geolocation.Address, error) {
	return nil, nil
}

var _ bridge.DismissRevealer = (*fakeHost)(nil)

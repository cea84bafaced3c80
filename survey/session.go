package survey

import (
	"github.com/benbjohnson/clock"
	"github.com/gofrs/uuid"
	"github.com/golang/glog"

	"github.com/survata/survata-go/bridge"
)

type signalKind int

const (
	signalBridge signalKind = iota
	signalCancel
)

type signal struct {
	kind  signalKind
	event bridge.Event
}

// session ties one Survey to one active presentation. It owns the bridge
// subscriptions and the connectivity ticker, and funnels every callback
// through one channel so a single goroutine processes them in delivery
// order. The first terminal-triggering signal wins; the bridge is detached
// and the ticker stopped before the terminal callback fires, and everything
// arriving later is discarded.
type session struct {
	id      uuid.UUID
	survey  *Survey
	bridge  *bridge.Bridge
	ticker  *clock.Ticker
	fn      func(Result)
	html    string
	signals chan signal
	done    chan struct{}
}

func newSession(s *Survey, postalCode string, fn func(Result)) (*session, error) {
	optionJSON, err := s.options.forWidget(postalCode)
	if err != nil {
		return nil, err
	}
	return &session{
		id:      uuid.Must(uuid.NewV4()),
		survey:  s,
		bridge:  bridge.New(s.deps.Host),
		fn:      fn,
		html:    bridge.BuildWidgetHTML(s.deps.Template, s.options.Publisher, optionJSON, s.deps.Loader),
		signals: make(chan signal),
		done:    make(chan struct{}),
	}, nil
}

// start wires the bridge, starts the connectivity poll and loads the widget.
func (sess *session) start() {
	for _, name := range bridge.EventNames {
		name := name
		sess.bridge.On(name, func(payload []byte) {
			sess.post(signal{kind: signalBridge, event: bridge.Event{Name: name, Payload: payload}})
		})
	}
	sess.bridge.Attach()
	sess.ticker = sess.survey.deps.Clock.Ticker(sess.survey.deps.PollPeriod)
	go sess.run()

	sess.survey.debugf("survey: session %s presenting", sess.id)
	sess.survey.deps.Host.LoadHTML(sess.html)
}

// post hands a signal to the session goroutine. Signals arriving after the
// terminal result are dropped.
func (sess *session) post(sig signal) {
	select {
	case sess.signals <- sig:
	case <-sess.done:
	}
}

// cancel delivers the explicit user cancel signal.
func (sess *session) cancel() {
	sess.post(signal{kind: signalCancel})
}

func (sess *session) run() {
	for {
		select {
		case sig := <-sess.signals:
			if result, terminal := sess.handle(sig); terminal {
				sess.finish(result)
				return
			}
		case <-sess.ticker.C:
			if !sess.survey.deps.Connectivity() {
				sess.survey.debugf("survey: session %s lost connectivity", sess.id)
				sess.finish(NetworkNotAvailable)
				return
			}
		}
	}
}

// handle processes one signal, reporting whether it is terminal and with
// which result.
func (sess *session) handle(sig signal) (Result, bool) {
	if sig.kind == signalCancel {
		return Canceled, true
	}

	event := sig.event
	switch event.Name {
	case bridge.EventLoad:
		status, ok := bridge.LoadStatus(event.Payload)
		if !ok {
			// load payloads that are not objects carry no status; ignore
			glog.V(2).Infof("survey: session %s ignoring malformed load payload", sess.id)
			return 0, false
		}
		if status == bridge.StatusMonetizable {
			// interview will run; reveal the dismiss affordance
			if revealer, ok := sess.survey.deps.Host.(bridge.DismissRevealer); ok {
				revealer.ShowDismiss()
			}
			return 0, false
		}
		return CreditEarned, true
	case bridge.EventReady:
		sess.survey.deps.Host.StartInterview()
		return 0, false
	case bridge.EventInterviewComplete:
		return Completed, true
	case bridge.EventInterviewSkip:
		return Skipped, true
	case bridge.EventNoSurveyAvailable:
		return NoSurveyAvailable, true
	case bridge.EventLog:
		sess.survey.debugf("survey: widget log %s", event.Payload)
		return 0, false
	case bridge.EventInterviewStart, bridge.EventFail:
		glog.V(2).Infof("survey: session %s event %q", sess.id, event.Name)
		return 0, false
	}
	return 0, false
}

// finish tears the session down and delivers the terminal result. The close
// of done releases any callback blocked in post before the bridge detaches,
// so a synchronous host cannot deadlock against teardown.
func (sess *session) finish(result Result) {
	close(sess.done)
	sess.bridge.Detach()
	sess.ticker.Stop()
	sess.survey.debugf("survey: session %s finished with %s", sess.id, result)
	sess.fn(result)
}

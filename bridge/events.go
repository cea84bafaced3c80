package bridge

import (
	"bytes"

	"github.com/buger/jsonparser"

	"github.com/survata/survata-go/util/jsonutil"
)

// EventName identifies an inbound message from the embedded survey content.
// The vocabulary is closed; anything else parses to EventUnknown.
type EventName string

const (
	EventLoad              EventName = "load"
	EventInterviewComplete EventName = "interviewComplete"
	EventInterviewSkip     EventName = "interviewSkip"
	EventInterviewStart    EventName = "interviewStart"
	EventNoSurveyAvailable EventName = "noSurveyAvailable"
	EventFail              EventName = "fail"
	EventReady             EventName = "ready"
	EventLog               EventName = "log"

	// EventUnknown is the forward-compatibility fallback for names outside
	// the vocabulary.
	EventUnknown EventName = ""
)

// EventNames is the full inbound vocabulary, in the order the embedded
// content host is subscribed to it.
var EventNames = []EventName{
	EventLoad,
	EventInterviewComplete,
	EventInterviewSkip,
	EventInterviewStart,
	EventNoSurveyAvailable,
	EventFail,
	EventReady,
	EventLog,
}

// ParseEventName maps a raw message name onto the vocabulary.
func ParseEventName(name string) EventName {
	for _, known := range EventNames {
		if string(known) == name {
			return known
		}
	}
	return EventUnknown
}

// Event is one inbound message: a vocabulary name plus its raw payload.
type Event struct {
	Name    EventName
	Payload []byte
}

// LoadStatus extracts the status field of a load event payload. ok reports
// whether the payload is a JSON object at all; load events carrying anything
// else must be ignored. An object without a string status returns "" with
// ok true.
func LoadStatus(payload []byte) (status string, ok bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !jsonutil.IsValid(trimmed) {
		return "", false
	}
	status, err := jsonparser.GetString(trimmed, "status")
	if err != nil {
		return "", true
	}
	return status, true
}

// StatusMonetizable is the load status under which the survey wall will show
// an interview. Any other status credits the user without an interview.
const StatusMonetizable = "monetizable"

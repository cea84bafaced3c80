// Package availability implements the survey availability check: one POST to
// the interview-check endpoint, classified into a fixed outcome set.
package availability

// Outcome is the result of one availability check.
type Outcome int

const (
	// Available means a survey can be presented for the given options.
	Available Outcome = iota

	// NotAvailable means the server declined the options as not valid.
	NotAvailable

	// Error means the check failed: no connectivity, transport failure,
	// an undecodable body, or an explicit server error code.
	Error
)

func (o Outcome) String() string {
	switch o {
	case Available:
		return "available"
	case NotAvailable:
		return "notAvailable"
	case Error:
		return "error"
	}
	return "unknown"
}

// Request is the availability-check payload. Empty optional members are
// omitted from the JSON body entirely.
type Request struct {
	PublisherUUID string
	MobileAdID    string
	ContentName   string
	PostalCode    string
	Preview       string
}

func (r Request) body() map[string]interface{} {
	body := map[string]interface{}{
		"publisherUuid": r.PublisherUUID,
	}
	if r.MobileAdID != "" {
		body["mobileAdId"] = r.MobileAdID
	}
	if r.ContentName != "" {
		body["contentName"] = r.ContentName
	}
	if r.PostalCode != "" {
		body["postalCode"] = r.PostalCode
	}
	if r.Preview != "" {
		body["preview"] = r.Preview
	}
	return body
}

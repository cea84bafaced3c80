package survey

import (
	"github.com/survata/survata-go/availability"
	"github.com/survata/survata-go/util/jsonutil"
)

// Options are the caller-supplied survey options. Do not modify an Options
// value after passing it to New; the orchestrator treats it as immutable.
type Options struct {
	// Publisher is the publisher identifier. Required.
	Publisher string

	// Brand is an optional brand label shown by the survey wall.
	Brand string

	// Explainer is an optional explainer text shown by the survey wall.
	Explainer string

	// ContentName is an optional content label.
	ContentName string

	// MobileAdID is the advertising identifier. Populate it only when the
	// platform permits tracking; leave empty to omit it.
	MobileAdID string

	// PostalCode overrides postal code resolution when set.
	PostalCode string

	// SendPostalCode enables postal code resolution for the availability
	// request.
	SendPostalCode bool

	// Preview is an optional preview token.
	Preview string
}

// forAPI projects the options onto the availability request payload.
func (o Options) forAPI(postalCode string) availability.Request {
	return availability.Request{
		PublisherUUID: o.Publisher,
		MobileAdID:    o.MobileAdID,
		ContentName:   o.ContentName,
		PostalCode:    postalCode,
		Preview:       o.Preview,
	}
}

// forWidget projects the options onto the JSON blob substituted into the
// widget template. Empty optional members are omitted entirely.
func (o Options) forWidget(postalCode string) ([]byte, error) {
	option := map[string]interface{}{}
	if o.Brand != "" {
		option["brand"] = o.Brand
	}
	if o.Explainer != "" {
		option["explainer"] = o.Explainer
	}
	if o.ContentName != "" {
		option["contentName"] = o.ContentName
	}
	if o.MobileAdID != "" {
		option["mobileAdId"] = o.MobileAdID
	}
	if postalCode != "" {
		option["postalCode"] = postalCode
	}
	return jsonutil.Marshal(option)
}

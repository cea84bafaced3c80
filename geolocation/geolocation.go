// Package geolocation provides the location types and host interfaces the
// postal code resolver is built on. The host environment supplies the
// LocationProvider and ReverseGeocoder implementations; this package only
// coordinates them.
package geolocation

import "context"

// Location is a geographic fix delivered by the host's location provider.
type Location struct {
	Lat float64
	Lon float64
}

// Address is one reverse-geocode candidate for a location.
type Address struct {
	CountryCode string
	PostalCode  string
}

// AuthorizationStatus is the host platform's location permission state.
type AuthorizationStatus int

const (
	// AuthorizationNotDetermined means the user has not been asked yet.
	AuthorizationNotDetermined AuthorizationStatus = iota

	// AuthorizationDenied means the user refused location access.
	AuthorizationDenied

	// AuthorizationRestricted means platform policy forbids location access.
	AuthorizationRestricted

	// AuthorizationAlways permits location access at any time.
	AuthorizationAlways

	// AuthorizationWhenInUse permits location access while the app is active.
	AuthorizationWhenInUse
)

// Allowed reports whether the status permits a location request without
// triggering a permission prompt.
func (s AuthorizationStatus) Allowed() bool {
	return s == AuthorizationAlways || s == AuthorizationWhenInUse
}

// UpdateFunc receives location fixes from the provider. A nil location with a
// non-nil err signals a failed fix; repeated calls are permitted until the
// subscription is stopped.
type UpdateFunc func(loc *Location, err error)

// LocationProvider is the host's continuous-update location source.
type LocationProvider interface {
	// AuthorizationStatus returns the current permission state without
	// prompting.
	AuthorizationStatus() AuthorizationStatus

	// RequestAuthorization triggers the platform permission prompt.
	RequestAuthorization()

	// StartUpdates begins delivering fixes to fn, replacing any previous
	// subscription.
	StartUpdates(fn UpdateFunc)

	// StopUpdates stops the current subscription. No fixes are delivered
	// after it returns.
	StopUpdates()

	// LastKnown returns the most recent fix the platform retains, or nil.
	LastKnown() *Location
}

// ReverseGeocoder resolves a location to zero or more address candidates.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, loc Location) ([]Address, error)
}

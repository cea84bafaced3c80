// Package postalcode resolves the postal code attached to availability
// requests. Resolution prefers caller input, then the durable cache, then a
// fresh location fix reverse-geocoded to an address. Every failure along the
// way degrades to "no postal code"; a missing code never blocks a survey.
package postalcode

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/survata/survata-go/cache"
	"github.com/survata/survata-go/errortypes"
	"github.com/survata/survata-go/geolocation"
	"github.com/survata/survata-go/util/jsonutil"
)

// CacheKey is the durable cache entry holding the last resolved postal code.
const CacheKey = "geocode"

// DefaultFreshness is how long a cached postal code stays valid.
const DefaultFreshness = 24 * time.Hour

type cacheEntry struct {
	PostalCode string `json:"postalCode"`
}

// Resolver resolves postal codes from explicit input, cache, or geolocation.
type Resolver struct {
	cache     cache.Cache
	locations *geolocation.Resolver
	provider  geolocation.LocationProvider
	geocoder  geolocation.ReverseGeocoder
	country   string
	freshness time.Duration
}

// NewResolver wires a Resolver. country is the ISO country code a
// reverse-geocoded address must match before its postal code is used.
// freshness <= 0 falls back to DefaultFreshness.
func NewResolver(c cache.Cache, locations *geolocation.Resolver, provider geolocation.LocationProvider, geocoder geolocation.ReverseGeocoder, country string, freshness time.Duration) *Resolver {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Resolver{
		cache:     c,
		locations: locations,
		provider:  provider,
		geocoder:  geocoder,
		country:   country,
		freshness: freshness,
	}
}

// Resolve delivers a postal code to fn exactly once, with ok=false when none
// could be determined.
//
// When wantsCode is false nothing is consulted. An explicit code is returned
// as-is and never cached. Otherwise the cache is tried within the freshness
// window, then geolocation, but only if the platform already authorizes
// location access; this path never triggers a permission prompt by itself.
func (r *Resolver) Resolve(ctx context.Context, explicit string, wantsCode bool, fn func(code string, ok bool)) {
	if !wantsCode {
		fn("", false)
		return
	}
	if explicit != "" {
		fn(explicit, true)
		return
	}
	if payload, ok := r.cache.Get(CacheKey, r.freshness); ok {
		var entry cacheEntry
		if err := jsonutil.Unmarshal(payload, &entry); err == nil && entry.PostalCode != "" {
			fn(entry.PostalCode, true)
			return
		}
	}
	if !r.provider.AuthorizationStatus().Allowed() {
		glog.V(2).Info("postalcode: location access not authorized, resolving without code")
		fn("", false)
		return
	}
	r.locations.Current(func(loc *geolocation.Location) {
		if loc == nil {
			fn("", false)
			return
		}
		r.fromLocation(ctx, *loc, fn)
	})
}

// fromLocation reverse-geocodes loc and delivers the postal code of the first
// candidate matching the expected country, writing it back to the cache.
func (r *Resolver) fromLocation(ctx context.Context, loc geolocation.Location, fn func(code string, ok bool)) {
	addresses, err := r.geocoder.ReverseGeocode(ctx, loc)
	if err != nil {
		werr := &errortypes.GeocodeFailure{Message: fmt.Sprintf("reverse geocode failed: %v", err)}
		glog.V(2).Infof("postalcode: %v", werr)
		fn("", false)
		return
	}
	for _, address := range addresses {
		if address.CountryCode != r.country || address.PostalCode == "" {
			continue
		}
		if payload, err := jsonutil.Marshal(cacheEntry{PostalCode: address.PostalCode}); err == nil {
			r.cache.Put(CacheKey, payload)
		}
		fn(address.PostalCode, true)
		return
	}
	fn("", false)
}

package survey

import (
	"path/filepath"

	"github.com/survata/survata-go/availability"
	"github.com/survata/survata-go/bridge"
	"github.com/survata/survata-go/cache/filecache"
	"github.com/survata/survata-go/config"
	"github.com/survata/survata-go/geolocation"
	"github.com/survata/survata-go/postalcode"
	"github.com/survata/survata-go/util/timeutil"
)

// HostDeps are the host-environment collaborators the SDK cannot provide
// itself. Host and Connectivity are required. Locations and Geocoder are
// optional; without both, postal code resolution degrades to explicit codes
// only.
type HostDeps struct {
	// Host is the embedded content surface presenting the survey wall.
	Host bridge.EmbeddedHost

	// Connectivity reports whether the network is reachable right now.
	Connectivity func() bool

	// Locations is the platform location source.
	Locations geolocation.LocationProvider

	// Geocoder resolves locations to address candidates.
	Geocoder geolocation.ReverseGeocoder

	// CacheRoot is the host's designated cache area. The SDK stores its
	// durable state in a subdirectory of it.
	CacheRoot string

	// Template is the widget HTML template carrying the three placeholders.
	Template string

	// Loader is the binary loader asset substituted base64-encoded.
	Loader []byte
}

// NewFromConfig assembles a Survey and its collaborators from a
// Configuration: the availability client from the endpoint, timeout and user
// agent, the durable cache under the host's cache area, and postal code
// resolution with the configured country and freshness window.
func NewFromConfig(cfg *config.Configuration, options Options, host HostDeps) (*Survey, error) {
	clock := &timeutil.RealTime{}

	var postalCodes *postalcode.Resolver
	if host.Locations != nil && host.Geocoder != nil {
		dataCache := filecache.NewOrEmpty(filepath.Join(host.CacheRoot, cfg.DataCache.Directory), clock)
		postalCodes = postalcode.NewResolver(
			dataCache,
			geolocation.NewResolver(host.Locations),
			host.Locations,
			host.Geocoder,
			cfg.Geo.Country,
			cfg.Geo.Freshness,
		)
	}

	return New(options, Deps{
		Client:       availability.NewClient(cfg.Endpoint, cfg.UserAgent, cfg.RequestTimeout, nil),
		PostalCodes:  postalCodes,
		Connectivity: host.Connectivity,
		Host:         host.Host,
		Template:     host.Template,
		Loader:       host.Loader,
		PollPeriod:   cfg.ConnectivityPollPeriod,
	})
}

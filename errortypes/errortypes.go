package errortypes

// Timeout should be used to flag that the availability request failed to
// return a response before the request deadline expired.
type Timeout struct {
	Message string
}

func (err *Timeout) Error() string {
	return err.Message
}

func (err *Timeout) Code() int {
	return TimeoutErrorCode
}

func (err *Timeout) Severity() Severity {
	return SeverityFatal
}

// Transport should be used when the availability request could not be sent or
// the connection failed before a response arrived.
type Transport struct {
	Message string
}

func (err *Transport) Error() string {
	return err.Message
}

func (err *Transport) Code() int {
	return TransportErrorCode
}

func (err *Transport) Severity() Severity {
	return SeverityFatal
}

// BadServerResponse should be used when the server responded with an
// unexpected status or an explicit error code.
type BadServerResponse struct {
	Message string
}

func (err *BadServerResponse) Error() string {
	return err.Message
}

func (err *BadServerResponse) Code() int {
	return BadServerResponseErrorCode
}

func (err *BadServerResponse) Severity() Severity {
	return SeverityFatal
}

// MalformedResponse should be used when a response body could not be decoded.
type MalformedResponse struct {
	Message string
}

func (err *MalformedResponse) Error() string {
	return err.Message
}

func (err *MalformedResponse) Code() int {
	return MalformedResponseErrorCode
}

func (err *MalformedResponse) Severity() Severity {
	return SeverityFatal
}

// CacheUnavailable is logged when the durable cache could not be created.
// It is never surfaced to callers; the cache degrades to permanently empty.
type CacheUnavailable struct {
	Message string
}

func (err *CacheUnavailable) Error() string {
	return err.Message
}

func (err *CacheUnavailable) Code() int {
	return CacheUnavailableErrorCode
}

func (err *CacheUnavailable) Severity() Severity {
	return SeverityWarning
}

// GeocodeFailure is logged when a location fix or reverse geocode fails.
// It is never surfaced to callers; postal code resolution degrades to absent.
type GeocodeFailure struct {
	Message string
}

func (err *GeocodeFailure) Error() string {
	return err.Message
}

func (err *GeocodeFailure) Code() int {
	return GeocodeFailureErrorCode
}

func (err *GeocodeFailure) Severity() Severity {
	return SeverityWarning
}

// BadInput should be used when returning errors which are caused by bad
// caller input, such as an empty publisher id.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}

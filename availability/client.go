package availability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buger/jsonparser"
	"github.com/golang/glog"
	"golang.org/x/net/context/ctxhttp"

	"github.com/survata/survata-go/errortypes"
	"github.com/survata/survata-go/util/jsonutil"
)

// DefaultTimeout bounds the whole request/response cycle.
const DefaultTimeout = 20 * time.Second

// Client issues availability checks. It never retries: each Check is exactly
// one request, and every failure mode collapses into the Error outcome.
type Client struct {
	endpoint   string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a Client for the given endpoint. userAgent is the
// descriptive client identifier sent with every request. timeout <= 0 falls
// back to DefaultTimeout.
func NewClient(endpoint, userAgent string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// Check sends one availability request and classifies the response. The
// classification depends only on the request and the server's reply, so
// identical inputs yield identical outcomes.
func (c *Client) Check(ctx context.Context, request Request) Outcome {
	outcome, err := c.check(ctx, request)
	if err != nil {
		if errortypes.IsWarning(err) {
			glog.V(2).Infof("availability: %v", err)
		} else {
			glog.Errorf("availability: check failed with code %d: %v", errortypes.ReadCode(err), err)
		}
	}
	return outcome
}

func (c *Client) check(ctx context.Context, request Request) (Outcome, error) {
	payload, err := jsonutil.Marshal(request.body())
	if err != nil {
		return Error, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequest("POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Error, &errortypes.BadInput{Message: fmt.Sprintf("cannot build request: %v", err)}
	}
	// the survey wall expects this content type
	httpReq.Header.Set("Content-Type", "application/javascript")
	httpReq.Header.Set("User-Agent", c.userAgent)
	// always fetch fresh, bypassing any intermediary HTTP cache
	httpReq.Header.Set("Cache-Control", "no-cache, no-store")
	httpReq.Header.Set("Pragma", "no-cache")

	glog.V(2).Infof("availability: sending %s", payload)
	resp, err := ctxhttp.Do(ctx, c.httpClient, httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Error, &errortypes.Timeout{Message: fmt.Sprintf("no response within %s", c.timeout)}
		}
		return Error, &errortypes.Transport{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Error, &errortypes.Transport{Message: fmt.Sprintf("cannot read response: %v", err)}
	}
	glog.V(2).Infof("availability: response %s", body)
	return classify(body)
}

// classify maps a response body onto an Outcome. Unknown fields are ignored;
// only valid and errorCode participate.
func classify(body []byte) (Outcome, error) {
	if !jsonutil.IsValid(body) {
		return Error, &errortypes.MalformedResponse{Message: "response body is not JSON"}
	}
	if valid, err := jsonparser.GetBoolean(body, "valid"); err == nil && !valid {
		return NotAvailable, nil
	}
	if value, dataType, _, err := jsonparser.Get(body, "errorCode"); err == nil && dataType != jsonparser.Null {
		return Error, &errortypes.BadServerResponse{Message: fmt.Sprintf("server returned errorCode %s", value)}
	}
	return Available, nil
}

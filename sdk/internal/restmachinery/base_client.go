package restmachinery

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// RequestIDHeader is attached to every outbound request so that client and
// server logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// OutboundRequest models of an outbound API call.
type OutboundRequest struct {
	// Method specifies the HTTP method to be used.
	Method string
	// Path specifies a path (relative to the root of the API) to be used.
	Path string
	// QueryParams optionally specifies any URL query parameters to be used.
	QueryParams map[string]string
	// AuthHeaders optionally specifies any authentication headers to be used.
	// Requests sent through an auth.Gateway do not need these; the gateway
	// attaches the current bearer token itself.
	AuthHeaders map[string]string
	// Headers optionally specifies any miscellaneous HTTP headers to be used.
	Headers map[string]string
	// ReqBodyObj optionally provides an object that can be marshaled to create
	// the body of the HTTP request.
	ReqBodyObj interface{}
	// SuccessCode specifies what HTTP response code should indicate a
	// successful API call. When zero, any 2xx code is a success.
	SuccessCode int
	// RespObj optionally provides an object into which the HTTP response body
	// can be unmarshaled.
	RespObj interface{}
}

// BaseClient provides "API machinery" used by all the specialized API
// clients. Its various functions remove the tedium from common API-related
// operations like encoding request bodies, interpreting response codes,
// decoding responses bodies, and more.
type BaseClient struct {
	APIAddress string
	HTTPClient *http.Client
}

// NewBaseClient returns a BaseClient that sends requests to the API at the
// specified address using the specified transport. When transport is nil, a
// transport obtained from NewTransport(false) is used.
func NewBaseClient(apiAddress string, transport http.RoundTripper) *BaseClient {
	if transport == nil {
		transport = NewTransport(false)
	}
	return &BaseClient{
		APIAddress: strings.TrimSuffix(apiAddress, "/"),
		HTTPClient: &http.Client{
			Transport: transport,
		},
	}
}

// NewTransport returns the *http.Transport every client in this SDK sits on
// top of.
func NewTransport(allowInsecure bool) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: allowInsecure, // nolint: gosec
		},
	}
}

// BasicAuthHeaders, given a username and password, returns a
// map[string]string populated with a Basic Auth header.
func (b *BaseClient) BasicAuthHeaders(
	username string,
	password string,
) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf(
			"Basic %s",
			base64.StdEncoding.EncodeToString(
				[]byte(fmt.Sprintf("%s:%s", username, password)),
			),
		),
	}
}

// BearerTokenAuthHeaders returns a map[string]string populated with an
// authentication header that makes use of the specified bearer token.
func (b *BaseClient) BearerTokenAuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// ExecuteRequest accepts a context and an OutboundRequest that models all
// aspects of a single API call in a succinct fashion. Based on this
// information, this function prepares and executes an HTTP request, interprets
// the HTTP response code and decodes the response body into a user-supplied
// type.
func (b *BaseClient) ExecuteRequest(
	ctx context.Context,
	req OutboundRequest,
) error {
	resp, err := b.SubmitRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if req.RespObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if len(bytes.TrimSpace(respBodyBytes)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBodyBytes, req.RespObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

// SubmitRequest accepts a context and an OutboundRequest that models all
// aspects of a single API call in a succinct fashion. Based on this
// information, this function prepares and executes an HTTP request and
// returns the HTTP response. This is a lower-level function than
// ExecuteRequest(). It is used by ExecuteRequest(), but is also suitable for
// uses in cases where specialized response handling is required.
func (b *BaseClient) SubmitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	var reqBodyReader io.Reader
	if req.ReqBodyObj != nil {
		switch rb := req.ReqBodyObj.(type) {
		case []byte:
			reqBodyReader = bytes.NewBuffer(rb)
		default:
			reqBodyBytes, err := json.Marshal(req.ReqBodyObj)
			if err != nil {
				return nil, errors.Wrap(err, "error marshaling request body")
			}
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	r, err := http.NewRequest(
		req.Method,
		fmt.Sprintf("%s/%s", b.APIAddress, strings.TrimPrefix(req.Path, "/")),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	r = r.WithContext(ctx)
	if len(req.QueryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.QueryParams {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
	if reqBodyReader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("Accept", "application/json")
	for k, v := range req.AuthHeaders {
		r.Header.Add(k, v)
	}
	for k, v := range req.Headers {
		r.Header.Add(k, v)
	}
	requestID := uuid.NewV4().String()
	r.Header.Set(RequestIDHeader, requestID)

	glog.V(2).Infof("%s %s [%s]", req.Method, r.URL.Path, requestID)

	resp, err := b.HTTPClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	if (req.SuccessCode == 0 && (resp.StatusCode < 200 || resp.StatusCode > 299)) ||
		(req.SuccessCode != 0 && resp.StatusCode != req.SuccessCode) {
		defer resp.Body.Close()
		bodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error reading error response body")
		}
		// HTTP Response code hints at what sort of error might be in the body
		// of the response
		var apiErr error
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr = &meta.ErrAuthentication{}
		case http.StatusForbidden:
			apiErr = &meta.ErrAuthorization{}
		case http.StatusBadRequest:
			apiErr = &meta.ErrBadRequest{}
		case http.StatusNotFound:
			apiErr = &meta.ErrNotFound{}
		case http.StatusConflict:
			apiErr = &meta.ErrConflict{}
		case http.StatusInternalServerError:
			apiErr = &meta.ErrInternalServer{}
		default:
			return nil, &meta.ErrUnexpectedStatus{
				StatusCode: resp.StatusCode,
				Body:       string(bodyBytes),
			}
		}
		// The backend doesn't always send a body with an error and isn't
		// obligated to send one we understand.
		if len(bytes.TrimSpace(bodyBytes)) > 0 {
			if err = json.Unmarshal(bodyBytes, apiErr); err != nil {
				glog.V(1).Infof(
					"could not decode %d response body [%s]: %s",
					resp.StatusCode,
					requestID,
					err,
				)
			}
		}
		return nil, apiErr
	}
	return resp, nil
}

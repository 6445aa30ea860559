// Package api implements the Milky HTTP invocation layer: typed parameters
// in, json payload or classified error out.
//
// Every call is POST {base_url}/api/{action} with a JSON body; the gateway
// answers with an envelope {"status", "retcode", "data", "message"}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinyland-inc/milky/pkg/config"
	"github.com/tinyland-inc/milky/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Params is the flattened key/value parameter map of one action call.
type Params map[string]any

// Client invokes actions against one configured gateway endpoint.
type Client struct {
	endpoint   config.ClientConfig
	httpClient *http.Client
}

// NewClient builds a client for one endpoint.
func NewClient(endpoint config.ClientConfig) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Endpoint returns the endpoint this client talks to.
func (c *Client) Endpoint() config.ClientConfig { return c.endpoint }

// cleanParams drops nil-valued optional parameters so they are omitted from
// the request body instead of being sent as null.
func cleanParams(params Params) Params {
	cleaned := make(Params, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}

// Call invokes one action and returns the raw data payload of a successful
// response. Failures are classified: *TransportError for network/HTTP-layer
// problems, *APIError when the gateway answered with a failure.
func (c *Client) Call(ctx context.Context, action string, params Params) (json.RawMessage, error) {
	body, err := json.Marshal(cleanParams(params))
	if err != nil {
		return nil, fmt.Errorf("encoding %s params: %w", action, err)
	}

	logger.DebugCF("api", "Calling action", map[string]any{
		"action": action,
		"url":    c.endpoint.APIURL(action),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.APIURL(action), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.endpoint.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.endpoint.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Action:     action,
			HTTPStatus: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if len(respBody) == 0 {
		return nil, &TransportError{Action: action, Err: fmt.Errorf("empty response body")}
	}

	var env struct {
		Status  string          `json:"status"`
		Retcode int64           `json:"retcode"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &TransportError{Action: action, Err: fmt.Errorf("malformed response envelope: %w", err)}
	}
	if env.Status == "failed" || env.Retcode != 0 {
		return nil, &APIError{
			Action:     action,
			HTTPStatus: resp.StatusCode,
			Retcode:    env.Retcode,
			Message:    env.Message,
		}
	}

	return env.Data, nil
}

// CallInto invokes one action and decodes the data payload into out. Pass a
// nil out for actions whose result the caller does not need.
func (c *Client) CallInto(ctx context.Context, action string, params Params, out any) error {
	data, err := c.Call(ctx, action, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(data) == 0 || string(data) == "null" {
		return &TransportError{Action: action, Err: fmt.Errorf("response has no data payload")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Action: action, Err: fmt.Errorf("decoding response data: %w", err)}
	}
	return nil
}

package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
)

var logger = xlog.NewPackageLogger("github.com/openhands-ai/agents-go", "openai")

// CreateResponse creates a response using the Responses API.
func (c *Client) CreateResponse(ctx context.Context, r *responses.ResponseNewParams) (*responses.Response, error) {
	if r.Model == "" {
		if c.Model == "" {
			r.Model = DefaultChatModel
		} else {
			r.Model = c.Model
		}
	}
	if !r.MaxOutputTokens.Valid() {
		r.MaxOutputTokens = param.NewOpt(int64(DefaultMaxTokens))
	}
	return c.createResponse(ctx, r)
}

// createResponse sends the request to /responses and parses the reply.
func (c *Client) createResponse(ctx context.Context, payload *responses.ResponseNewParams) (*responses.Response, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	u := c.buildURL("/responses", payload.Model)
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	c.setHeaders(req)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	if r.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API returned unexpected status code: %d", r.StatusCode)
		if r.StatusCode == http.StatusNotFound {
			msg += ": url: " + u
		}
		var errResp errorMessage
		if err := json.NewDecoder(r.Body).Decode(&errResp); err != nil {
			return nil, errors.New(msg)
		}
		return nil, errors.Errorf("%s: %s", msg, errResp.Error.Message)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	var resp responses.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &resp, nil
}

package httpcall

import (
	"context"
	"io"
	"net/http"

	"github.com/jonwraymond/callguard/resilience"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the value produced by operations built with this package.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// maxErrorBody bounds how much of an error response body lands in the error
// message.
const maxErrorBody = 512

// Operation builds a resilience.Operation from a request constructor. The
// constructor runs once per attempt, so retried attempts get a fresh request
// bound to the attempt's context.
func Operation(client Doer, newRequest func(ctx context.Context) (*http.Request, error)) resilience.Operation {
	return func(ctx context.Context) (any, error) {
		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 400 {
			return nil, &resilience.APIError{
				StatusCode: resp.StatusCode,
				Message:    errorMessage(resp.StatusCode, body),
			}
		}

		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}, nil
	}
}

// Get builds an operation issuing a GET against url.
func Get(client Doer, url string) resilience.Operation {
	return Operation(client, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

func errorMessage(status int, body []byte) string {
	if len(body) == 0 {
		return http.StatusText(status)
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}

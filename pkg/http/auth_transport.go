package http

import "net/http"

type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.value != "" {
		reqCopy.Header.Set(t.header, t.value)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends the token as a standard Bearer Authorization header.
func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		value := ""
		if token != "" {
			value = "Bearer " + token
		}
		return &authTransport{
			header:    "Authorization",
			value:     value,
			transport: rt,
		}
	})
}

// WithAPIKeyHeader sends the key under a custom header name, for services
// that do not use Bearer auth (e.g. vector stores expecting "Api-Key").
func WithAPIKeyHeader(header, key string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     key,
			transport: rt,
		}
	})
}

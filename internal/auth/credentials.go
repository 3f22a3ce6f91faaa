package auth

import (
	"net/http"
	"strings"
)

// CredentialSource yields the raw Authorization header of an inbound request,
// whatever transport carried it.
type CredentialSource interface {
	AuthorizationHeader() string
}

// FromRequest adapts a buffered net/http request (gin, plain handlers).
func FromRequest(r *http.Request) CredentialSource {
	return requestSource{r}
}

type requestSource struct{ r *http.Request }

func (s requestSource) AuthorizationHeader() string {
	if s.r == nil {
		return ""
	}
	return s.r.Header.Get("Authorization")
}

// FromHeaders adapts a bare header set, as handed over by streaming or edge
// transports that never materialize an *http.Request. Lookup is case-insensitive.
func FromHeaders(h map[string]string) CredentialSource {
	return headerSource(h)
}

type headerSource map[string]string

func (h headerSource) AuthorizationHeader() string {
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") {
			return v
		}
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

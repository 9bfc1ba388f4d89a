package observability

import (
	"net"
	"net/http"
	"strings"
)

// ClientMeta identifies the client behind a request in events and rate limiting.
type ClientMeta struct {
	RequestID string
	DeviceID  string
	IP        string
	UserAgent string
}

// ClientMetaFromRequest collects the client identity headers of r.
func ClientMetaFromRequest(r *http.Request) ClientMeta {
	return ClientMeta{
		RequestID: r.Header.Get("X-Request-ID"),
		DeviceID:  r.Header.Get("X-Device-Id"),
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

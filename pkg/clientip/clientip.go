// Package clientip resolves the originating client address of an HTTP
// request, honouring the usual reverse proxy headers.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders are consulted in order before falling back to RemoteAddr.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the client's IP address using DefaultHeaders.
func GetIP(r *http.Request) string {
	return FromRequest(r, DefaultHeaders...)
}

// FromRequest returns the first valid address found in headers, then
// RemoteAddr. X-Forwarded-For style lists yield their left-most valid entry.
// Pass no headers when the service is exposed directly.
func FromRequest(r *http.Request, headers ...string) string {
	for _, h := range headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	// IPv6 literals may arrive bracketed.
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}

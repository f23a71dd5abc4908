package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// proxyAllowlist is the parsed set of proxy networks whose forwarding
// headers are believed.
type proxyAllowlist []*net.IPNet

// TrustedRealIP rewrites r.RemoteAddr from X-Real-IP or X-Forwarded-For,
// but only when the connection itself originates from an allowlisted proxy.
// Requests from anywhere else keep their socket address, so a client cannot
// spoof its identity in the run logs by sending forwarding headers directly.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	allow := parseAllowlist(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allow.contains(remoteIP(r)) {
				if ip := forwardedClientIP(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseAllowlist accepts CIDR notation or bare addresses; a bare address
// becomes a single-host network. Invalid entries are logged and skipped
// rather than failing startup.
func parseAllowlist(cidrs []string) proxyAllowlist {
	var allow proxyAllowlist
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(cidr); err == nil {
			allow = append(allow, network)
			continue
		}

		ip := net.ParseIP(cidr)
		if ip == nil {
			slog.Warn("ignoring invalid trusted proxy entry", "entry", cidr)
			continue
		}
		bits := 128
		if ip.To4() != nil {
			bits = 32
		}
		allow = append(allow, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return allow
}

func (a proxyAllowlist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, network := range a {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// remoteIP extracts the connection source address, tolerating both
// "host:port" and bare-host forms of RemoteAddr.
func remoteIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

// forwardedClientIP reads the proxy headers in precedence order: X-Real-IP
// first, then the leftmost entry of the X-Forwarded-For chain. Values that
// do not parse as an IP are ignored.
func forwardedClientIP(r *http.Request) net.IP {
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		if ip := net.ParseIP(rip); ip != nil {
			return ip
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return net.ParseIP(strings.TrimSpace(first))
	}
	return nil
}

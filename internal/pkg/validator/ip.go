// Package validator holds small input checks shared by the HTTP layer.
package validator

import (
	"net"
	"strings"
)

// UnknownIP keys requests whose peer address cannot be parsed.
const UnknownIP = "unknown"

// IsValidIP reports whether ip is a literal IPv4 or IPv6 address.
func IsValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}

// NormalizeIP strips an IPv6 zone (fe80::1%eth0 -> fe80::1) and surrounding
// space.
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if idx := strings.IndexByte(ip, '%'); idx != -1 {
		return ip[:idx]
	}
	return ip
}

// ClientKey returns the normalized ip, or UnknownIP when it is not an
// address, so that limiter keys never embed arbitrary header text.
func ClientKey(ip string) string {
	normalized := NormalizeIP(ip)
	if IsValidIP(normalized) {
		return normalized
	}
	return UnknownIP
}

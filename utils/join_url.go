package utils

import (
	"net/url"
	"strings"
)

// JoinURL appends endpoint to base. Absolute endpoints are returned unchanged.
func JoinURL(base, endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		return endpoint
	}
	if endpoint == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

package utils

import "net/http"

// MergeHeaders layers header maps left to right; later layers win on
// canonical key collision.
func MergeHeaders(layers ...map[string]string) http.Header {
	h := make(http.Header)
	for _, layer := range layers {
		for k, v := range layer {
			h.Set(k, v)
		}
	}
	return h
}

package store

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// NewCookieJar builds the jar shared by the gateway's http.Client and the cookie mirror.
func NewCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// JarSink mirrors cookies into a jar scoped to the API base URL so that
// every outgoing request to the API host carries them.
type JarSink struct {
	jar http.CookieJar
	u   *url.URL
}

func NewJarSink(jar http.CookieJar, baseURL *url.URL) *JarSink {
	root := *baseURL
	root.Path = "/"
	root.RawQuery = ""
	return &JarSink{jar: jar, u: &root}
}

func (s *JarSink) SetCookie(cookie *http.Cookie) {
	s.jar.SetCookies(s.u, []*http.Cookie{cookie})
}

// Cookie returns the named cookie currently held for the API host.
func (s *JarSink) Cookie(name string) (*http.Cookie, bool) {
	for _, c := range s.jar.Cookies(s.u) {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

type NopSink struct{}

func (NopSink) SetCookie(*http.Cookie) {}

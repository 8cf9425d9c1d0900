// Package util holds small shared helpers with no domain knowledge.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds an http.Transport proxy function from explicit proxy
// URLs, falling back to the standard environment variables when none are
// configured.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

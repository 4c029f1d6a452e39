package ratelimit

import (
	"net/http"
	"net/url"
)

func httpProxyFunc(proxyURL string) (func(*http.Request) (*url.URL, error), error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	return http.ProxyURL(parsed), nil
}

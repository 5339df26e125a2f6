package snakes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// trimURL removes the protocol and trailing slashes.
func trimURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	parts := strings.Split(url, "://")
	if len(parts) < 2 {
		return url
	}
	return strings.Join(parts[1:], "://")
}

// baseURL prepends `protocol + "://"` or `protocol + "s://"` to the url depending on TLS support.
func baseURL(protocol string, tls bool, trimmedURL string) string {
	if tls {
		return protocol + "s://" + trimmedURL
	}
	return protocol + "://" + trimmedURL
}

// isTLS reports whether the scheme of address asks for an encrypted connection.
func isTLS(address string) bool {
	scheme, _, found := strings.Cut(strings.TrimSpace(address), "://")
	if !found {
		return false
	}
	scheme = strings.ToLower(scheme)
	return scheme == "wss" || scheme == "https"
}

// websocketURL turns address into a ws:// or wss:// url.
// The protocol can be omitted, in which case ws is used. http and https are mapped to ws and wss.
func websocketURL(address string) (string, error) {
	if strings.TrimSpace(address) == "" {
		return "", errors.New("empty address")
	}
	if scheme, _, found := strings.Cut(address, "://"); found {
		switch strings.ToLower(strings.TrimSpace(scheme)) {
		case "ws", "wss", "http", "https":
		default:
			return "", fmt.Errorf("unsupported scheme %q", scheme)
		}
	}

	raw := baseURL("ws", isTLS(address), trimURL(address))
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", errors.New("missing host")
	}
	if strings.HasSuffix(u.Host, ":") {
		return "", errors.New("missing port")
	}
	return u.String(), nil
}

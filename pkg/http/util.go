package http

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL appends path to the path of baseURL, so "https://host/v3" and
// "/contacts" give "https://host/v3/contacts".
func BuildURL(baseURL, path string, queryParams url.Values) (string, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("error parsing base URL: %q is not absolute", baseURL)
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	parsedURL.RawPath = ""

	if len(queryParams) > 0 {
		parsedURL.RawQuery = queryParams.Encode()
	}

	return parsedURL.String(), nil
}

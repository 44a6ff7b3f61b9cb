package util

import (
	"fmt"
	"net/url"
	"strings"
)

func IsGCSURI(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "gs://")
}

// ParseGCSURI splits gs://bucket/some/prefix into bucket and object prefix.
// The prefix never has a leading slash; an empty prefix means the whole bucket.
func ParseGCSURI(raw string) (bucket, prefix string, err error) {
	raw = strings.TrimSpace(raw)
	if !IsGCSURI(raw) {
		return "", "", fmt.Errorf("not a gs:// uri: %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("missing bucket in %q", raw)
	}

	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

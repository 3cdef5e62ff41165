package config

import (
	"strings"
	"time"
)

const (
	apiBaseVar     = "ALPHA_API_BASE"
	httpTimeoutVar = "ALPHA_HTTP_TIMEOUT"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBase returns the REST base URL without a trailing slash.
func (API) GetAPIBase() string {
	return trimBase(GetEnv(apiBaseVar, "http://localhost:8000"))
}

func (API) GetHTTPTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(httpTimeoutVar, "15s"))
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (API) GetUserAgent() string {
	return "alpha-client/1.0"
}

func trimBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

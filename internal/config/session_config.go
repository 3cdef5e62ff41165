package config

import "strconv"

const refreshCoalesceVar = "ALPHA_REFRESH_COALESCE"

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetRefreshPath() string {
	return "/auth/refresh"
}

// GetRefreshCoalescing reports whether concurrent 401s share one refresh call.
// Off by default: each failing request performs its own refresh.
func (Session) GetRefreshCoalescing() bool {
	v, err := strconv.ParseBool(GetEnv(refreshCoalesceVar, "false"))
	if err != nil {
		return false
	}
	return v
}

func (Session) GetSessionFileName() string {
	return "session.json"
}

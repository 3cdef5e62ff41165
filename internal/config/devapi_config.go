package config

import "time"

const (
	devSecretVar   = "ALPHA_DEVAPI_SECRET"
	devTokenTTLVar = "ALPHA_DEVAPI_TOKEN_TTL"
)

type DevAPI struct{}

var _ DevAPIConfig = DevAPI{}

// GetDevAPISecret is the HS256 key the development API signs access tokens with.
func (DevAPI) GetDevAPISecret() string {
	return GetEnv(devSecretVar, "alpha-dev-secret")
}

func (DevAPI) GetDevAPITokenTTL() time.Duration {
	d, err := time.ParseDuration(GetEnv(devTokenTTLVar, "15m"))
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

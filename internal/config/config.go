package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	DevAPIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDataFolder() string
	GetPort() string
}

type APIConfig interface {
	GetAPIBase() string
	GetHTTPTimeout() time.Duration
	GetUserAgent() string
}

type SessionConfig interface {
	GetRefreshPath() string
	GetRefreshCoalescing() bool
	GetSessionFileName() string
}

type DevAPIConfig interface {
	GetDevAPISecret() string
	GetDevAPITokenTTL() time.Duration
}

type mainConfig struct {
	EnvVars
	API
	Session
	DevAPI
}

func New() Config {
	return mainConfig{}
}

// Overrides replaces selected values of a Config, typically from command line flags.
// Empty fields fall through to the wrapped Config.
type Overrides struct {
	APIBase    string
	DataFolder string
	LogLevel   string
}

type overridden struct {
	Config
	o Overrides
}

// WithOverrides returns cfg with any non-empty override applied on top.
func WithOverrides(cfg Config, o Overrides) Config {
	return overridden{Config: cfg, o: o}
}

func (c overridden) GetAPIBase() string {
	if c.o.APIBase != "" {
		return trimBase(c.o.APIBase)
	}
	return c.Config.GetAPIBase()
}

func (c overridden) GetDataFolder() string {
	if c.o.DataFolder != "" {
		return c.o.DataFolder
	}
	return c.Config.GetDataFolder()
}

func (c overridden) GetLogLevel() string {
	if c.o.LogLevel != "" {
		return c.o.LogLevel
	}
	return c.Config.GetLogLevel()
}

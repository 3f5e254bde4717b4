// Package appconf holds application-level configuration shared by the
// HTTP adapter and the core services.
package appconf

import (
	"os"
	"strconv"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment converts an environment flag string to the Environment enum.
// Unknown values default to Development.
func EnvFlagToEnvironment(envFlag string) Environment {
	switch envFlag {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// Config contains the settings for the HTTP adapter layer.
type Config struct {
	Port      int
	Env       Environment
	RateLimit int

	// MaxWalkMeters is the default walking radius for plan queries that
	// set none. Zero falls through to the planner's default.
	MaxWalkMeters float64

	Verbose bool
}

// EnvString returns the value of the named environment variable,
// or fallback when it is unset or empty.
func EnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt returns the integer value of the named environment variable,
// or fallback when it is unset, empty, or not an integer.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

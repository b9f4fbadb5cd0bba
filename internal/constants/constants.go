package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBPingTimeout     = 5 * time.Second
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SessionIDLength = 16
	MaxSessions     = 64
	SessionIdleTTL  = 12 * time.Hour
)

package config

// Tree defaults.
const (
	DefaultTreeCapacity    = 0
	DefaultTreePreallocate = "0"
	DefaultTreeVerify      = false
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Metrics defaults.
const (
	DefaultMetricsEnabled  = false
	DefaultMetricsTreeName = "default"
)

package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout applies when the config leaves SHUTDOWN_TIMEOUT unset; a var for tests.
var shutdownTimeout = 10 * time.Second

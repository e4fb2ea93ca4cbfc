package configs

import "time"

// HTTP configures the invocation endpoint. ShutdownTimeout bounds how long
// in-flight invocations may run after a termination signal.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on. Defaults to 8080.
	Port            uint16        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

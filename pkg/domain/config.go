package domain

import (
	"net"
	"strconv"
	"time"
)

const (
	DefaultBackendHost = "127.0.0.1"
	DefaultBackendPort = 8000
)

// BackendConfig locates the assistant backend and bounds each exchange.
// It is read once per exchange, so a new value applies to the next turn.
type BackendConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`

	// Timeout bounds a whole exchange. Zero leaves it to the transport.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// Retries is the number of extra attempts after a transport failure. Zero means one attempt.
	Retries int `json:"retries" mapstructure:"retries"`
	// RetryBackoff is the base delay of the exponential backoff between attempts.
	RetryBackoff time.Duration `json:"retry_backoff" mapstructure:"retry_backoff"`
}

// DefaultBackendConfig returns the reference backend location.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		Host:         DefaultBackendHost,
		Port:         DefaultBackendPort,
		RetryBackoff: 250 * time.Millisecond,
	}
}

// Addr returns host:port.
func (c BackendConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the backend root URL.
func (c BackendConfig) BaseURL() string {
	return "http://" + c.Addr()
}

// ChatURL returns the URL of the chat endpoint.
func (c BackendConfig) ChatURL() string {
	return c.BaseURL() + "/chat"
}

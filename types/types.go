package types

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"
)

// Protocol represents the transport used to reach the router
type Protocol string

const (
	ProtocolAPI    Protocol = "api"
	ProtocolAPISSL Protocol = "api-ssl"
	ProtocolSSH    Protocol = "ssh"
	ProtocolSNMP   Protocol = "snmp"
	ProtocolMock   Protocol = "mock" // in-memory device for tests and dry runs
)

// Default management ports per transport.
const (
	DefaultAPIPort    = 8728
	DefaultAPISSLPort = 8729
	DefaultSSHPort    = 22
	DefaultSNMPPort   = 161

	DefaultTimeout = 10 * time.Second
)

// DeviceConfig contains the connection settings for a single RouterOS device
type DeviceConfig struct {
	// Name is a human label used in logs
	Name string

	// Address is the management IP/hostname
	Address string

	// Port is the management port (0 selects the transport default)
	Port int

	// Protocol selects the driver
	Protocol Protocol

	// Username for authentication
	Username string

	// Password for authentication
	Password string

	// TLSEnabled switches the API transport to api-ssl
	TLSEnabled bool

	// TLSSkipVerify skips TLS certificate verification (insecure, for testing)
	TLSSkipVerify bool

	// Timeout bounds dialing and every command
	Timeout time.Duration

	// Metadata contains transport-specific settings (snmp_community, snmp_version, ...)
	Metadata map[string]string
}

// Target returns host:port, applying the transport's default port when none is set.
func (c *DeviceConfig) Target() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort(c.Protocol, c.TLSEnabled)
	}
	return net.JoinHostPort(c.Address, strconv.Itoa(port))
}

// EffectiveTimeout returns Timeout or DefaultTimeout when unset.
func (c *DeviceConfig) EffectiveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// DefaultPort returns the well-known port for a transport.
func DefaultPort(p Protocol, tls bool) int {
	switch p {
	case ProtocolAPISSL:
		return DefaultAPISSLPort
	case ProtocolSSH:
		return DefaultSSHPort
	case ProtocolSNMP:
		return DefaultSNMPPort
	default:
		if tls {
			return DefaultAPISSLPort
		}
		return DefaultAPIPort
	}
}

// Record is one reply sentence: a flat attribute map with string values.
type Record map[string]string

// Get returns the value for key, or fallback when it is missing or empty.
func (r Record) Get(key, fallback string) string {
	if v, ok := r[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Bool decodes RouterOS booleans ("true", "yes").
func (r Record) Bool(key string) bool {
	switch strings.ToLower(r[key]) {
	case "true", "yes":
		return true
	}
	return false
}

// Uint decodes a decimal counter; malformed or missing values are 0.
func (r Record) Uint(key string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(r[key]), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Executor runs one RouterOS command and returns its reply records.
//
// command is a slash path plus verb ("/ppp/secret/print"). Keys in params that
// start with "?" are sent as query words, every other key as an attribute word.
type Executor interface {
	Execute(ctx context.Context, command string, params map[string]string) ([]Record, error)
}

// Driver is the interface that all transports must implement
type Driver interface {
	Executor

	// Connect establishes a session with the device
	Connect(ctx context.Context, config *DeviceConfig) error

	// Disconnect closes the session. Safe to call repeatedly.
	Disconnect(ctx context.Context) error

	// IsConnected returns true while a session is open
	IsConnected() bool

	// HealthCheck performs a cheap read against the open session
	HealthCheck(ctx context.Context) error
}

// CLIExecutor is an optional interface for drivers that expose the raw console
type CLIExecutor interface {
	// ExecCommand executes a console command and returns the output
	ExecCommand(ctx context.Context, command string) (string, error)

	// ExecCommands executes multiple console commands sequentially
	ExecCommands(ctx context.Context, commands []string) ([]string, error)
}

// SNMPExecutor is an optional interface for drivers that support SNMP queries
type SNMPExecutor interface {
	// GetSNMP retrieves a single SNMP value by OID
	GetSNMP(ctx context.Context, oid string) (interface{}, error)

	// WalkSNMP walks an SNMP subtree
	WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error)
}

package routeros

import (
	"context"
	"fmt"
	"sort"

	"github.com/nanoncore/nano-routeros/drivers/api"
	"github.com/nanoncore/nano-routeros/drivers/cli"
	"github.com/nanoncore/nano-routeros/drivers/mock"
	"github.com/nanoncore/nano-routeros/drivers/snmp"
	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

// TransportCapabilities describes what a transport can do against RouterOS
type TransportCapabilities struct {
	Read        bool
	Write       bool
	TLS         bool
	DefaultPort int
	Description string
}

// CapabilityMatrix defines what each transport supports
var CapabilityMatrix = map[Protocol]TransportCapabilities{
	ProtocolAPI: {
		Read:        true,
		Write:       true,
		DefaultPort: types.DefaultAPIPort,
		Description: "RouterOS API",
	},
	ProtocolAPISSL: {
		Read:        true,
		Write:       true,
		TLS:         true,
		DefaultPort: types.DefaultAPISSLPort,
		Description: "RouterOS API over TLS",
	},
	ProtocolSSH: {
		Read:        true,
		Write:       true,
		DefaultPort: types.DefaultSSHPort,
		Description: "RouterOS console over SSH",
	},
	ProtocolSNMP: {
		Read:        true,
		DefaultPort: types.DefaultSNMPPort,
		Description: "SNMP telemetry (system resource, interfaces)",
	},
	ProtocolMock: {
		Read:        true,
		Write:       true,
		Description: "in-memory simulated router",
	},
}

// NewDriver creates the driver for config.Protocol (the API when unset)
func NewDriver(config *DeviceConfig) (Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Protocol == "" {
		config.Protocol = ProtocolAPI
	}
	if _, ok := CapabilityMatrix[config.Protocol]; !ok {
		return nil, fmt.Errorf("unsupported transport: %s", config.Protocol)
	}

	var (
		driver Driver
		err    error
	)
	switch config.Protocol {
	case ProtocolAPI, ProtocolAPISSL:
		driver, err = api.NewDriver(config)
	case ProtocolSSH:
		driver, err = cli.NewDriver(config)
	case ProtocolSNMP:
		driver, err = snmp.NewDriver(config)
	case ProtocolMock:
		driver, err = mock.NewDriver(config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", config.Protocol, err)
	}
	return driver, nil
}

// GetSupportedTransports returns every transport name, sorted
func GetSupportedTransports() []Protocol {
	out := make([]Protocol, 0, len(CapabilityMatrix))
	for p := range CapabilityMatrix {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetTransportCapabilities returns the capabilities for a transport
func GetTransportCapabilities(p Protocol) (TransportCapabilities, bool) {
	caps, ok := CapabilityMatrix[p]
	return caps, ok
}

// WithSession opens a session to the device described by config, runs fn
// with an adapter bound to it and always closes the session afterwards,
// including when fn fails or panics.
func WithSession(ctx context.Context, config *DeviceConfig, fn func(*mikrotik.Adapter) error, opts ...mikrotik.Option) error {
	driver, err := NewDriver(config)
	if err != nil {
		return err
	}
	return WithDriver(ctx, driver, config, fn, opts...)
}

// WithDriver is WithSession for a driver the caller already built.
func WithDriver(ctx context.Context, driver Driver, config *DeviceConfig, fn func(*mikrotik.Adapter) error, opts ...mikrotik.Option) error {
	if err := driver.Connect(ctx, config); err != nil {
		return err
	}
	defer func() {
		if err := driver.Disconnect(context.WithoutCancel(ctx)); err != nil {
			logging.L.Warn("disconnect failed", "err", err)
		}
	}()
	return fn(mikrotik.NewAdapter(driver, opts...))
}

// CheckRouter connects, runs a health check and returns the router identity.
func CheckRouter(ctx context.Context, config *DeviceConfig, opts ...mikrotik.Option) (string, error) {
	var identity string
	err := WithSession(ctx, config, func(a *mikrotik.Adapter) error {
		if err := a.HealthCheck(ctx); err != nil {
			return err
		}
		id, err := a.Identity(ctx)
		identity = id
		return err
	}, opts...)
	return identity, err
}

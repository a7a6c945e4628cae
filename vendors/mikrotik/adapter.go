// Package mikrotik maps RouterOS menus onto typed repositories for
// PPP secrets, Hotspot users, active sessions and device inventory.
package mikrotik

import (
	"context"
	"fmt"

	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// Adapter wraps an executor (normally a connected driver) with RouterOS-specific logic
type Adapter struct {
	exec   types.Executor
	driver types.Driver

	unknown        string
	passwordLength int

	ppp           *AccountRepository
	hotspot       *AccountRepository
	pppActive     *ActiveSessionRepository
	hotspotActive *ActiveSessionRepository
}

// Option customizes an Adapter
type Option func(*Adapter)

// WithUnknownLabel sets the placeholder for missing name-like fields.
func WithUnknownLabel(label string) Option {
	return func(a *Adapter) {
		if label != "" {
			a.unknown = label
		}
	}
}

// WithPasswordLength sets the length of passwords generated by Reset.
func WithPasswordLength(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.passwordLength = n
		}
	}
}

// NewAdapter creates a new RouterOS adapter. When exec is also a types.Driver
// the adapter exposes its session lifecycle.
func NewAdapter(exec types.Executor, opts ...Option) *Adapter {
	a := &Adapter{
		exec:           exec,
		unknown:        DefaultUnknownLabel,
		passwordLength: DefaultPasswordLength,
	}
	if driver, ok := exec.(types.Driver); ok {
		a.driver = driver
	}
	for _, opt := range opts {
		opt(a)
	}

	a.ppp = newAccountRepository(exec, schemas[model.ClassPPP], a.unknown)
	a.hotspot = newAccountRepository(exec, schemas[model.ClassHotspot], a.unknown)
	a.pppActive = newActiveSessionRepository(exec, schemas[model.ClassPPP], a.unknown)
	a.hotspotActive = newActiveSessionRepository(exec, schemas[model.ClassHotspot], a.unknown)
	return a
}

// Connect opens the underlying driver session. It fails when the adapter
// wraps a bare executor.
func (a *Adapter) Connect(ctx context.Context, config *types.DeviceConfig) error {
	if a.driver == nil {
		return fmt.Errorf("executor has no session lifecycle")
	}
	return a.driver.Connect(ctx, config)
}

// Disconnect closes the driver session; a bare executor has none to close.
func (a *Adapter) Disconnect(ctx context.Context) error {
	if a.driver == nil {
		return nil
	}
	return a.driver.Disconnect(ctx)
}

// IsConnected reports whether the driver holds an open session.
func (a *Adapter) IsConnected() bool {
	return a.driver != nil && a.driver.IsConnected()
}

// HealthCheck asks the driver to verify its session, or reads the router
// identity when only an executor is available.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	if a.driver != nil {
		return a.driver.HealthCheck(ctx)
	}
	_, err := a.exec.Execute(ctx, cmd(PathSystemIdentity, verbPrint), nil)
	return err
}

// Execute passes a raw command through to the underlying executor.
func (a *Adapter) Execute(ctx context.Context, command string, params map[string]string) ([]types.Record, error) {
	return a.exec.Execute(ctx, command, params)
}

// UnknownLabel returns the placeholder used for missing names.
func (a *Adapter) UnknownLabel() string { return a.unknown }

// PPP returns the PPP secret repository
func (a *Adapter) PPP() *AccountRepository { return a.ppp }

// Hotspot returns the Hotspot user repository
func (a *Adapter) Hotspot() *AccountRepository { return a.hotspot }

// Accounts returns the repository for class.
func (a *Adapter) Accounts(class model.Class) (*AccountRepository, error) {
	switch class {
	case model.ClassPPP:
		return a.ppp, nil
	case model.ClassHotspot:
		return a.hotspot, nil
	}
	return nil, types.ValidationError("accounts", "unknown account class %q", class)
}

// Active returns the active-session repository for class.
func (a *Adapter) Active(class model.Class) (*ActiveSessionRepository, error) {
	switch class {
	case model.ClassPPP:
		return a.pppActive, nil
	case model.ClassHotspot:
		return a.hotspotActive, nil
	}
	return nil, types.ValidationError("active", "unknown account class %q", class)
}

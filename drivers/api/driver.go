// Package api implements the RouterOS API transport (plain and TLS) on top of go-routeros.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-routeros/routeros/v3"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/types"
)

// conn is the slice of a go-routeros client the driver needs.
type conn interface {
	Run(words []string) ([]map[string]string, error)
	Close()
}

// dialFunc opens an authenticated session.
type dialFunc func(ctx context.Context, config *types.DeviceConfig) (conn, error)

// Driver implements types.Driver over the RouterOS API
type Driver struct {
	mu        sync.Mutex
	config    *types.DeviceConfig
	session   conn
	connected bool
	dial      dialFunc
}

// NewDriver creates a new API driver
func NewDriver(config *types.DeviceConfig) (types.Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.Protocol == types.ProtocolAPISSL {
		config.TLSEnabled = true
	}
	if config.Port == 0 {
		config.Port = types.DefaultPort(config.Protocol, config.TLSEnabled)
	}
	if config.Timeout == 0 {
		config.Timeout = types.DefaultTimeout
	}

	return &Driver{config: config, dial: dialRouterOS}, nil
}

// Connect dials the device and logs in. Transport errors and timeouts are
// connection failures; a device rejection during login is an authentication failure.
func (d *Driver) Connect(ctx context.Context, config *types.DeviceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if config != nil {
		d.config = config
	}
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	if d.config == nil {
		return types.ConnectionError("connect", fmt.Errorf("no device configured"))
	}
	if d.connected {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return types.ConnectionError("connect", err)
	}

	target := d.config.Target()
	logging.L.Debug("dialing router", "target", target, "tls", d.config.TLSEnabled)

	session, err := d.dial(ctx, d.config)
	if err != nil {
		var devErr *routeros.DeviceError
		if errors.As(err, &devErr) {
			msg := deviceMessage(devErr)
			logging.L.Error("login rejected", "target", target, "user", d.config.Username, "err", msg)
			return types.AuthenticationError("login", msg, err)
		}
		logging.L.Error("connection failed", "target", target, "err", err)
		return types.ConnectionError("connect", err)
	}

	d.session = session
	d.connected = true
	logging.L.Info("connected", "target", target)
	return nil
}

// Disconnect closes the session. It never fails; calling it twice is a no-op.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeLocked()
	return nil
}

func (d *Driver) closeLocked() {
	if d.session != nil {
		d.session.Close()
		d.session = nil
		logging.L.Debug("session closed", "target", d.config.Target())
	}
	d.connected = false
}

// IsConnected returns true while a session is open
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Execute sends one command on the open session, connecting once if needed.
func (d *Driver) Execute(ctx context.Context, command string, params map[string]string) ([]types.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		if err := d.connectLocked(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, types.ConnectionError(command, err)
	}

	words := buildSentence(command, params)
	target := targetOf(params)

	ctx, cancel := context.WithTimeout(ctx, d.config.EffectiveTimeout())
	defer cancel()

	type result struct {
		replies []map[string]string
		err     error
	}
	done := make(chan result, 1)
	session := d.session
	go func() {
		replies, err := session.Run(words)
		done <- result{replies, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		// The reply can no longer be matched to this command; drop the session.
		d.closeLocked()
		err := &types.Error{Kind: types.KindConnection, Op: command, Target: target, Err: ctx.Err()}
		logging.L.Error("command timed out", "op", command, "target", target, "err", ctx.Err())
		return nil, err
	}

	if res.err != nil {
		var devErr *routeros.DeviceError
		if errors.As(res.err, &devErr) {
			msg := deviceMessage(devErr)
			logging.L.Error("command failed", "op", command, "target", target, "err", msg)
			return nil, &types.Error{Kind: types.KindCommand, Op: command, Target: target, Message: msg, Err: res.err}
		}
		d.closeLocked()
		logging.L.Error("transport failed", "op", command, "target", target, "err", res.err)
		return nil, &types.Error{Kind: types.KindConnection, Op: command, Target: target, Err: res.err}
	}

	logging.L.Debug("command ok", "op", command, "target", target, "records", len(res.replies))
	return toRecords(res.replies), nil
}

// HealthCheck reads the router identity
func (d *Driver) HealthCheck(ctx context.Context) error {
	_, err := d.Execute(ctx, "/system/identity/print", nil)
	return err
}

func deviceMessage(err *routeros.DeviceError) string {
	if err.Sentence != nil {
		if msg, ok := err.Sentence.Map["message"]; ok {
			return msg
		}
	}
	return err.Error()
}

// clientConn adapts *routeros.Client to conn
type clientConn struct {
	client *routeros.Client
}

func (c *clientConn) Run(words []string) ([]map[string]string, error) {
	reply, err := c.client.RunArgs(words)
	if err != nil {
		return nil, err
	}
	maps := make([]map[string]string, 0, len(reply.Re))
	for _, s := range reply.Re {
		maps = append(maps, s.Map)
	}
	return maps, nil
}

func (c *clientConn) Close() {
	c.client.Close()
}

func dialRouterOS(ctx context.Context, config *types.DeviceConfig) (conn, error) {
	timeout := config.EffectiveTimeout()
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	var (
		client *routeros.Client
		err    error
	)
	if config.TLSEnabled {
		tlsConfig := &tls.Config{
			ServerName:         config.Address,
			InsecureSkipVerify: config.TLSSkipVerify, //nolint:gosec // User-controlled via TLSSkipVerify
		}
		client, err = routeros.DialTLSTimeout(config.Target(), config.Username, config.Password, tlsConfig, timeout)
	} else {
		client, err = routeros.DialTimeout(config.Target(), config.Username, config.Password, timeout)
	}
	if err != nil {
		return nil, err
	}
	return &clientConn{client: client}, nil
}

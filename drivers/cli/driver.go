// Package cli drives the RouterOS console over SSH. API style commands are
// translated to console syntax and print output is read back in terse form.
package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// console is an interactive shell that runs one line at a time.
type console interface {
	Execute(line string) (string, error)
	SetTimeout(timeout time.Duration)
	Close() error
}

type dialFunc func(ctx context.Context, config *types.DeviceConfig) (console, error)

// Driver implements the types.Driver interface using SSH CLI
type Driver struct {
	mu      sync.Mutex
	config  *types.DeviceConfig
	session console
	dial    dialFunc
}

// NewDriver creates a new CLI driver
func NewDriver(config *types.DeviceConfig) (types.Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.Port == 0 {
		config.Port = types.DefaultSSHPort
	}
	if config.Timeout == 0 {
		config.Timeout = types.DefaultTimeout
	}

	return &Driver{config: config, dial: dialSSH}, nil
}

// Connect establishes an SSH connection and waits for the console prompt
func (d *Driver) Connect(ctx context.Context, config *types.DeviceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if config != nil {
		d.config = config
	}
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	if d.session != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return types.ConnectionError("connect", err)
	}

	session, err := d.dial(ctx, d.config)
	if err != nil {
		logging.Warnf("ssh connect to %s failed: %v", d.config.Target(), err)
		if strings.Contains(err.Error(), "unable to authenticate") {
			return types.AuthenticationError("login", "invalid user name or password", err)
		}
		return types.ConnectionError("connect", err)
	}
	d.session = session
	logging.Debugf("ssh console open to %s", d.config.Target())
	return nil
}

// Disconnect closes the SSH connection. Close errors are logged, never returned.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	return nil
}

func (d *Driver) closeLocked() {
	if d.session == nil {
		return
	}
	if err := d.session.Close(); err != nil {
		logging.Debugf("ssh close: %v", err)
	}
	d.session = nil
}

// IsConnected returns true if connected
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session != nil
}

// Execute translates command to console syntax, runs it and parses the reply.
func (d *Driver) Execute(ctx context.Context, command string, params map[string]string) ([]types.Record, error) {
	line, err := consoleLine(command, params)
	if err != nil {
		return nil, types.ValidationError(command, "%v", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	output, err := d.runLocked(ctx, command, line)
	if err != nil {
		return nil, err
	}
	if err := checkOutput(command, output); err != nil {
		logging.Debugf("%s rejected: %s", command, types.DeviceMessage(err))
		return nil, err
	}
	return parseOutput(command, output), nil
}

// ExecCommand implements types.CLIExecutor - runs a raw console line
func (d *Driver) ExecCommand(ctx context.Context, command string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	output, err := d.runLocked(ctx, command, command)
	if err != nil {
		return "", err
	}
	return common.ConsoleText(output), checkOutput(command, output)
}

// ExecCommands implements types.CLIExecutor - runs lines in order, stopping at the first failure
func (d *Driver) ExecCommands(ctx context.Context, commands []string) ([]string, error) {
	outputs := make([]string, 0, len(commands))
	for _, cmd := range commands {
		out, err := d.ExecCommand(ctx, cmd)
		outputs = append(outputs, out)
		if err != nil {
			return outputs, err
		}
	}
	return outputs, nil
}

// HealthCheck performs a health check
func (d *Driver) HealthCheck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return types.ConnectionError("health", fmt.Errorf("not connected to device"))
	}
	_, err := d.runLocked(ctx, "health", ":put [/system identity get name]")
	return err
}

// runLocked sends one line, connecting first when needed. A transport error
// or timeout drops the session since the console state is then unknown.
func (d *Driver) runLocked(ctx context.Context, op, line string) (string, error) {
	if err := d.connectLocked(ctx); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", types.ConnectionError(op, err)
	}

	timeout := d.config.EffectiveTimeout()
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	d.session.SetTimeout(timeout)

	start := time.Now()
	output, err := d.session.Execute(line)
	if err != nil {
		logging.Warnf("%s on %s failed after %s: %v", op, d.config.Target(), time.Since(start).Round(time.Millisecond), err)
		d.closeLocked()
		return "", types.ConnectionError(op, err)
	}
	logging.Debugf("%s on %s took %s", op, d.config.Target(), time.Since(start).Round(time.Millisecond))
	return output, nil
}

// sshConsole owns the SSH client under an expect session.
type sshConsole struct {
	*ExpectSession
	client *ssh.Client
}

func (c *sshConsole) Close() error {
	_ = c.ExpectSession.Close()
	return c.client.Close()
}

func dialSSH(ctx context.Context, config *types.DeviceConfig) (console, error) {
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = config.Password
		}
		return answers, nil
	})

	timeout := config.EffectiveTimeout()
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	sshConfig := &ssh.ClientConfig{
		User: config.Username + common.MetadataString(config.Metadata, DefaultLoginOptions, "ssh_login_options"),
		Auth: []ssh.AuthMethod{
			ssh.Password(config.Password),
			keyboardInteractive,
		},
		Timeout:         timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // management network, host keys are not provisioned
	}

	client, err := ssh.Dial("tcp", config.Target(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	session, err := NewExpectSession(ExpectSessionConfig{
		SSHClient: client,
		Timeout:   timeout,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &sshConsole{ExpectSession: session, client: client}, nil
}

var (
	_ types.Driver      = (*Driver)(nil)
	_ types.CLIExecutor = (*Driver)(nil)
)

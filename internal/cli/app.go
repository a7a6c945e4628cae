// Package cli implements the routeros-admin command tree. Every command
// loads the configuration, opens one router session and closes it on return.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	routeros "github.com/nanoncore/nano-routeros"
	"github.com/nanoncore/nano-routeros/internal/config"
	"github.com/nanoncore/nano-routeros/internal/i18n"
	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

var version = "dev" // set by the linker

// App carries the state shared by all commands of one invocation.
type App struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader

	// NewDriver builds the transport for the loaded configuration.
	NewDriver func(*types.DeviceConfig) (types.Driver, error)

	cfgPath string
	output  string
	cfg     config.Config
}

// New returns an App wired to the process streams and the real transports.
func New() *App {
	return &App{
		Out:       os.Stdout,
		Err:       os.Stderr,
		In:        os.Stdin,
		NewDriver: routeros.NewDriver,
	}
}

// errFailed is returned when the router rejected a single-entity operation.
var errFailed = errors.New("operation failed")

// NewRootCmd builds the full command tree.
func (a *App) NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "routeros-admin",
		Short: "Manage PPP and Hotspot accounts on a MikroTik RouterOS router",
		Long: `routeros-admin talks to one RouterOS router over the API (plain or TLS),
the SSH console or SNMP, and manages PPP secrets, Hotspot users, their
sessions, speed and data limits, and bulk account creation.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default is <user config dir>/nano-routeros/routeros.yaml)")
	pf.String("host", "", "router address")
	pf.Int("port", 0, "management port (0 selects the transport default)")
	pf.String("username", "", "login user")
	pf.String("password", "", `login password ("-" prompts)`)
	pf.Duration("timeout", 0, "dial and per-command timeout")
	pf.String("transport", "", "api, api-ssl, ssh, snmp or mock")
	pf.StringVarP(&a.output, "output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(
		a.statusCmd(),
		a.resourcesCmd(),
		a.interfacesCmd(),
		a.addressesCmd(),
		a.profilesCmd(),
		a.serversCmd(),
		a.activeCmd(),
		a.usersCmd(),
		a.searchCmd(),
		a.bulkCmd(),
		a.configCmd(),
		a.execCmd(),
		a.snmpCmd(),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.NewRootCmd()
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.Err)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(a.Err, "Error:", describe(err))
		return 1
	}
	return 0
}

// describe renders err for the terminal, preferring the device's own message.
func describe(err error) string {
	var e *types.Error
	if errors.As(err, &e) {
		code := mikrotik.CodeOf(err)
		if e.Kind == types.KindCommand && code != mikrotik.ErrUnknown {
			m := mikrotik.Translate(e.Message)
			return fmt.Sprintf("%s (%s)", m.Human, m.Action)
		}
	}
	if errors.Is(err, errFailed) {
		return i18n.T("failed")
	}
	return err.Error()
}

func (a *App) setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cmd, a.cfgPath)
	if err != nil {
		return err
	}
	if err := logging.SetLevel(c.LogLevel); err != nil {
		return err
	}
	i18n.Init(c.Language)

	switch a.output {
	case "table", "json", "yaml":
	default:
		return types.ValidationError("output", "unknown output format %q", a.output)
	}

	if c.Password == "-" {
		pw, err := a.readPassword()
		if err != nil {
			return err
		}
		c.Password = pw
	}
	a.cfg = c
	return nil
}

func (a *App) readPassword() (string, error) {
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.Err, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Err)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) unknownLabel() string {
	if a.cfg.UnknownLabel != "" {
		return a.cfg.UnknownLabel
	}
	return i18n.T("unknown")
}

// connect validates the configuration and builds a driver for it.
func (a *App) connect() (types.Driver, *types.DeviceConfig, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	dev := a.cfg.Device()
	driver, err := a.NewDriver(dev)
	if err != nil {
		return nil, nil, err
	}
	return driver, dev, nil
}

// session runs fn against an adapter bound to a fresh router session.
func (a *App) session(cmd *cobra.Command, fn func(ctx context.Context, ad *mikrotik.Adapter) error) error {
	driver, dev, err := a.connect()
	if err != nil {
		return err
	}
	ctx := contextOf(cmd)
	return routeros.WithDriver(ctx, driver, dev, func(ad *mikrotik.Adapter) error {
		return fn(ctx, ad)
	}, mikrotik.WithUnknownLabel(a.unknownLabel()))
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// done prints msg for a successful boolean operation and maps false to errFailed.
func (a *App) done(ok bool, err error, msg string) error {
	if err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	fmt.Fprintln(a.Out, msg)
	return nil
}

func classFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", string(model.ClassPPP), "account type: ppp or hotspot")
}

func classOf(cmd *cobra.Command) (model.Class, error) {
	v, _ := cmd.Flags().GetString("type")
	return model.ParseClass(v)
}

func scopeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("scope", "s", string(model.ScopeBoth), "ppp, hotspot or both")
}

func scopeOf(cmd *cobra.Command) (model.Scope, error) {
	v, _ := cmd.Flags().GetString("scope")
	return model.ParseScope(v)
}

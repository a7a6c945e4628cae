package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanoncore/nano-routeros/internal/i18n"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the router answers and print its identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				if err := ad.HealthCheck(ctx); err != nil {
					return err
				}
				identity, err := ad.Identity(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.Out, i18n.T("status.connected", a.cfg.Device().Target(), a.cfg.Transport, identity))
				return nil
			})
		},
	}
}

func (a *App) resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Show CPU, memory, disk and version of the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				res, err := ad.SystemResource(ctx)
				if err != nil {
					return err
				}
				return a.renderFields(res, [][2]string{
					{"board", res.BoardName},
					{"version", res.Version},
					{"architecture", res.Architecture},
					{"uptime", res.Uptime},
					{"cpu-load", strconv.FormatUint(res.CPULoad, 10) + "%"},
					{"memory", fmt.Sprintf("%s / %s (%.1f%%)", formatBytes(res.TotalMemory-res.FreeMemory), formatBytes(res.TotalMemory), res.MemoryUsedPercent())},
					{"disk-free", formatBytes(res.FreeHDDSpace) + " / " + formatBytes(res.TotalHDDSpace)},
				})
			})
		},
	}
}

func (a *App) interfacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List interfaces with traffic counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				ifaces, err := ad.Interfaces(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(ifaces))
				for _, i := range ifaces {
					rows = append(rows, []string{i.Name, i.Type, i.MACAddress, i.MTU, yesNo(i.Running), yesNo(i.Disabled), formatBytes(i.RxBytes), formatBytes(i.TxBytes)})
				}
				return a.render(ifaces, []string{"name", "type", "mac", "mtu", "running", "disabled", "rx", "tx"}, rows)
			})
		},
	}
}

func (a *App) addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List IP addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				addrs, err := ad.IPAddresses(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(addrs))
				for _, ip := range addrs {
					rows = append(rows, []string{ip.Address, ip.Network, ip.Interface, yesNo(ip.Dynamic), yesNo(ip.Disabled)})
				}
				return a.render(addrs, []string{"address", "network", "interface", "dynamic", "disabled"}, rows)
			})
		},
	}
}

func (a *App) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List PPP or Hotspot user profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				profiles, err := ad.Profiles(ctx, class)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(profiles))
				for _, p := range profiles {
					rows = append(rows, []string{p.Name, p.RateLimit, p.SharedUsers, p.SessionTimeout})
				}
				return a.render(profiles, []string{"name", "rate-limit", "shared-users", "session-timeout"}, rows)
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) serversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List Hotspot servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				servers, err := ad.HotspotServers(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(servers))
				for _, s := range servers {
					rows = append(rows, []string{s.Name, s.Interface, s.AddressPool, s.Profile, yesNo(s.Disabled)})
				}
				return a.render(servers, []string{"name", "interface", "address-pool", "profile", "disabled"}, rows)
			})
		},
	}
}

// execCmd runs raw console lines on transports that expose a console.
func (a *App) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec LINE...",
		Short: "Run raw console commands (ssh transport only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, dev, err := a.connect()
			if err != nil {
				return err
			}
			console, ok := driver.(types.CLIExecutor)
			if !ok {
				return types.ValidationError("exec", "transport %s has no console", dev.Protocol)
			}
			ctx := contextOf(cmd)
			if err := driver.Connect(ctx, dev); err != nil {
				return err
			}
			defer func() { _ = driver.Disconnect(context.WithoutCancel(ctx)) }()

			outputs, err := console.ExecCommands(ctx, args)
			for _, out := range outputs {
				if out != "" {
					fmt.Fprintln(a.Out, out)
				}
			}
			return err
		},
	}
}

// snmpCmd exposes raw GET and WALK on the snmp transport.
func (a *App) snmpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snmp",
		Short: "Raw SNMP queries (snmp transport only)",
	}

	run := func(walk bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			driver, dev, err := a.connect()
			if err != nil {
				return err
			}
			agent, ok := driver.(types.SNMPExecutor)
			if !ok {
				return types.ValidationError("snmp", "transport %s does not speak snmp", dev.Protocol)
			}
			ctx := contextOf(cmd)
			if err := driver.Connect(ctx, dev); err != nil {
				return err
			}
			defer func() { _ = driver.Disconnect(context.WithoutCancel(ctx)) }()

			if !walk {
				v, err := agent.GetSNMP(ctx, args[0])
				if err != nil {
					return err
				}
				return a.render(map[string]any{args[0]: v}, []string{"oid", "value"}, [][]string{{args[0], fmt.Sprint(v)}})
			}

			tree, err := agent.WalkSNMP(ctx, args[0])
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(tree))
			for k := range tree {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{strings.TrimSuffix(args[0], ".") + "." + k, fmt.Sprint(tree[k])})
			}
			return a.render(tree, []string{"oid", "value"}, rows)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "get OID", Short: "Read one object", Args: cobra.ExactArgs(1), RunE: run(false)},
		&cobra.Command{Use: "walk OID", Short: "Read a subtree", Args: cobra.ExactArgs(1), RunE: run(true)},
	)
	return cmd
}

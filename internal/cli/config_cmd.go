package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nanoncore/nano-routeros/internal/config"
	"github.com/nanoncore/nano-routeros/internal/i18n"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, change and test the router settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (password masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg.Redacted()
			return a.renderFields(c, [][2]string{
				{"host", c.Host},
				{"port", strconv.Itoa(c.Port)},
				{"username", c.Username},
				{"password", c.Password},
				{"timeout", c.Timeout.String()},
				{"transport", c.Transport},
				{"snmp_community", c.SNMPCommunity},
				{"log_level", c.LogLevel},
				{"language", c.Language},
				{"unknown_label", a.unknownLabel()},
			})
		},
	}

	set := &cobra.Command{
		Use:       "set KEY VALUE",
		Short:     "Change one setting and save it to the user config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			if err := c.Set(args[0], args[1]); err != nil {
				return err
			}
			path, err := config.WriteConfigFile(&c, false)
			if err != nil {
				return err
			}
			a.cfg = c
			fmt.Fprintln(a.Out, i18n.T("config.saved", path))
			return nil
		},
	}

	test := &cobra.Command{
		Use:   "test",
		Short: "Validate the settings and log in to the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				if err := ad.HealthCheck(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.Out, i18n.T("config.ok"))
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, test)
	return cmd
}

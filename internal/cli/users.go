package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanoncore/nano-routeros/internal/i18n"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

func (a *App) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage PPP secrets and Hotspot users",
	}
	cmd.AddCommand(
		a.usersListCmd(),
		a.usersShowCmd(),
		a.usersCreateCmd(),
		a.userActionCmd("delete NAME", "Delete an account", func(ctx context.Context, ad *mikrotik.Adapter, class model.Class, name string) (bool, error) {
			repo, err := ad.Accounts(class)
			if err != nil {
				return false, err
			}
			return repo.DeleteByName(ctx, name)
		}),
		a.userActionCmd("enable NAME", "Enable an account", func(ctx context.Context, ad *mikrotik.Adapter, class model.Class, name string) (bool, error) {
			repo, err := ad.Accounts(class)
			if err != nil {
				return false, err
			}
			return repo.SetDisabledByName(ctx, name, false)
		}),
		a.userActionCmd("disable NAME", "Disable an account", func(ctx context.Context, ad *mikrotik.Adapter, class model.Class, name string) (bool, error) {
			repo, err := ad.Accounts(class)
			if err != nil {
				return false, err
			}
			return repo.SetDisabledByName(ctx, name, true)
		}),
		a.userActionCmd("renew NAME", "Drop the active session so the user reconnects", func(ctx context.Context, ad *mikrotik.Adapter, class model.Class, name string) (bool, error) {
			return ad.Renew(ctx, class, name)
		}),
		a.usersPasswdCmd(),
		a.usersResetCmd(),
		a.usersSpeedCmd(),
		a.usersDataLimitCmd(),
		a.usersTrafficCmd(),
	)
	return cmd
}

func accountRows(accounts []model.Account) [][]string {
	rows := make([][]string, 0, len(accounts))
	for _, acct := range accounts {
		where := acct.Service
		if acct.Class == model.ClassHotspot {
			where = acct.Server
		}
		rows = append(rows, []string{acct.Name, string(acct.Class), acct.Profile, where, acct.RateLimit, yesNo(acct.Disabled), acct.Comment})
	}
	return rows
}

var accountHeaders = []string{"name", "class", "profile", "server", "rate-limit", "disabled", "comment"}

func (a *App) usersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				repo, err := ad.Accounts(class)
				if err != nil {
					return err
				}
				accounts, err := repo.List(ctx)
				if err != nil {
					return err
				}
				return a.render(accounts, accountHeaders, accountRows(accounts))
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) usersShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show an account and its session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				d, err := ad.Detail(ctx, class, args[0])
				if err != nil {
					return err
				}
				if d == nil {
					return types.ValidationError("show", "%s: %s", args[0], i18n.T("not_found"))
				}
				status := i18n.T("offline")
				address, uptime := "", ""
				if d.Online {
					status = i18n.T("online")
					address, uptime = d.Session.Address, d.Session.Uptime
				}
				return a.renderFields(d, [][2]string{
					{"name", d.Name},
					{"class", string(d.Class)},
					{"profile", d.Profile},
					{"service", d.Service},
					{"server", d.Server},
					{"rate-limit", d.RateLimit},
					{"disabled", yesNo(d.Disabled)},
					{"comment", d.Comment},
					{"status", status},
					{"address", address},
					{"uptime", uptime},
				})
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) usersCreateCmd() *cobra.Command {
	var (
		acct   model.Account
		limits model.LimitSpec
		length int
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an account, generating a password when none is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			if err := limits.Validate(); err != nil {
				return types.ValidationError("create", "%v", err)
			}
			acct.Class = class
			acct.Name = args[0]
			generated := acct.Password == ""
			if generated {
				if acct.Password, err = common.GeneratePassword(length); err != nil {
					return err
				}
			}

			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				repo, err := ad.Accounts(class)
				if err != nil {
					return err
				}
				ok, err := repo.Create(ctx, &acct)
				if err := a.done(ok, err, i18n.T("users.created", acct.Name)); err != nil {
					return err
				}
				if generated {
					fmt.Fprintln(a.Out, i18n.T("users.password", acct.Name, acct.Password))
				}
				if limits.IsEmpty() {
					return nil
				}
				ok, err = ad.ApplyLimits(ctx, class, acct.Name, limits)
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(cmd)
	f := cmd.Flags()
	f.StringVar(&acct.Password, "user-password", "", "account password (generated when empty)")
	f.IntVar(&length, "password-length", common.DefaultPasswordLength, "length of a generated password")
	f.StringVar(&acct.Profile, "profile", "", "profile name (router default when empty)")
	f.StringVar(&acct.Service, "service", "", "PPP service: any, pppoe, pptp, l2tp, ovpn, sstp")
	f.StringVar(&acct.Server, "server", "", "Hotspot server (all when empty)")
	f.StringVar(&acct.RemoteAddress, "remote-address", "", "PPP remote address")
	f.StringVar(&acct.MACAddress, "mac", "", "Hotspot MAC address binding")
	f.StringVar(&acct.Comment, "comment", "", "free text comment")
	f.StringVar(&limits.Upload, "upload", "", "upload limit, e.g. 5M")
	f.StringVar(&limits.Download, "download", "", "download limit, e.g. 10M")
	f.Float64Var(&limits.DataGB, "data-gb", 0, "data cap in GB")
	return cmd
}

type userAction func(ctx context.Context, ad *mikrotik.Adapter, class model.Class, name string) (bool, error)

func (a *App) userActionCmd(use, short string, action userAction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				ok, err := action(ctx, ad, class, args[0])
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) usersPasswdCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd NAME",
		Short: "Set an account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			if password == "" {
				return types.ValidationError("passwd", "--new-password is required")
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				repo, err := ad.Accounts(class)
				if err != nil {
					return err
				}
				ok, err := repo.SetPasswordByName(ctx, args[0], password)
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(cmd)
	cmd.Flags().StringVar(&password, "new-password", "", "the new password")
	return cmd
}

func (a *App) usersResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset NAME",
		Short: "Replace an account password with a generated one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				password, ok, err := ad.Reset(ctx, class, args[0])
				return a.done(ok, err, i18n.T("users.password", args[0], password))
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) usersSpeedCmd() *cobra.Command {
	var upload, download string
	cmd := &cobra.Command{
		Use:   "speed NAME",
		Short: "Set the upload/download rate limit (both empty clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				ok, err := ad.SetSpeed(ctx, class, args[0], upload, download)
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(cmd)
	cmd.Flags().StringVar(&upload, "upload", "", "upload limit, e.g. 5M")
	cmd.Flags().StringVar(&download, "download", "", "download limit, e.g. 10M")
	return cmd
}

func (a *App) usersDataLimitCmd() *cobra.Command {
	var gb float64
	cmd := &cobra.Command{
		Use:   "data-limit NAME",
		Short: "Set a data cap in GB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			if err := model.CheckDataLimit(gb); err != nil {
				return types.ValidationError("data-limit", "%v", err)
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				ok, err := ad.SetDataLimit(ctx, class, args[0], gb)
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(cmd)
	cmd.Flags().Float64Var(&gb, "gb", 0, "data cap in GB")
	return cmd
}

func (a *App) usersTrafficCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traffic NAME",
		Short: "Show live traffic counters of an online account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				stats, err := ad.Traffic(ctx, class, args[0])
				if err != nil {
					return err
				}
				if stats == nil || !stats.Online {
					fmt.Fprintln(a.Out, i18n.T("users.no_session", args[0]))
					return nil
				}
				return a.renderFields(stats, [][2]string{
					{"name", stats.Name},
					{"uptime", stats.Uptime},
					{"bytes-in", formatBytes(stats.BytesIn)},
					{"bytes-out", formatBytes(stats.BytesOut)},
					{"total", formatBytes(stats.TotalBytes())},
					{"packets-in", fmt.Sprint(stats.PacketsIn)},
					{"packets-out", fmt.Sprint(stats.PacketsOut)},
				})
			})
		},
	}
	classFlag(cmd)
	return cmd
}

func (a *App) activeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Inspect and drop active sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List active PPP and Hotspot sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				all, err := ad.ActiveSessions(ctx)
				if err != nil {
					return err
				}
				sessions := make([]model.ActiveSession, 0, len(all))
				rows := make([][]string, 0, len(all))
				for _, s := range all {
					if scope != model.ScopeBoth && string(s.Class) != string(scope) {
						continue
					}
					sessions = append(sessions, s)
					rows = append(rows, []string{s.ID, s.Name, string(s.Class), s.Address, s.Uptime, s.Service, formatBytes(s.BytesIn), formatBytes(s.BytesOut)})
				}
				return a.render(sessions, []string{"id", "name", "class", "address", "uptime", "service", "in", "out"}, rows)
			})
		},
	}
	scopeFlag(list)

	disconnect := &cobra.Command{
		Use:   "disconnect ID",
		Short: "Drop one active session by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				repo, err := ad.Active(class)
				if err != nil {
					return err
				}
				ok, err := repo.Disconnect(ctx, args[0])
				return a.done(ok, err, i18n.T("done"))
			})
		},
	}
	classFlag(disconnect)

	cmd.AddCommand(list, disconnect)
	return cmd
}

func (a *App) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find accounts across PPP and Hotspot",
	}

	by := func(use, short string, find func(*mikrotik.Adapter) func(context.Context, string, model.Scope) ([]model.Account, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				scope, err := scopeOf(cmd)
				if err != nil {
					return err
				}
				if strings.TrimSpace(args[0]) == "" {
					return types.ValidationError("search", "search text is required")
				}
				return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
					accounts, err := find(ad)(ctx, args[0], scope)
					if err != nil {
						return err
					}
					return a.render(accounts, accountHeaders, accountRows(accounts))
				})
			},
		}
		scopeFlag(c)
		return c
	}

	cmd.AddCommand(
		by("profile NAME", "Accounts using a profile", func(ad *mikrotik.Adapter) func(context.Context, string, model.Scope) ([]model.Account, error) {
			return ad.FindByProfile
		}),
		by("comment TEXT", "Accounts whose comment contains TEXT, case-insensitive", func(ad *mikrotik.Adapter) func(context.Context, string, model.Scope) ([]model.Account, error) {
			return ad.FindByComment
		}),
	)
	return cmd
}

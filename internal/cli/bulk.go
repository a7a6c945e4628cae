package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nanoncore/nano-routeros/internal/i18n"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/vendors/mikrotik"
)

func (a *App) bulkCmd() *cobra.Command {
	var (
		req   model.BulkRequest
		names []string
	)
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Create many accounts with generated passwords",
		Long: `Create up to 1000 accounts in one session, either numbered from a prefix
(--prefix user --count 50 gives user001..user050) or from an explicit --names list.
Rejected accounts are reported per row; a lost connection aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := classOf(cmd)
			if err != nil {
				return err
			}
			req.Class = class
			req.NameType = model.NameTypePrefix
			if len(names) > 0 {
				req.NameType = model.NameTypeCustom
				req.Names = names
			}
			if _, err := mikrotik.PlanBulkNames(req); err != nil {
				return err
			}

			return a.session(cmd, func(ctx context.Context, ad *mikrotik.Adapter) error {
				result, err := ad.BulkProvision(ctx, req)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(result.Results))
				for _, o := range result.Results {
					rows = append(rows, []string{o.Username, o.Password, o.Profile, i18n.T("bulk.status." + string(o.Status)), o.Error})
				}
				if err := a.render(result, []string{"name", "password", "profile", "status", "error"}, rows); err != nil {
					return err
				}
				if a.output == "table" {
					fmt.Fprintln(a.Out, i18n.T("bulk.summary", result.BatchID, result.Succeeded, result.Failed))
				}
				return nil
			})
		},
	}
	classFlag(cmd)
	f := cmd.Flags()
	f.StringVar(&req.Prefix, "prefix", mikrotik.DefaultBulkPrefix, "name prefix in prefix mode")
	f.IntVar(&req.Count, "count", 0, "number of accounts in prefix mode")
	f.StringSliceVar(&names, "names", nil, "explicit comma separated names")
	f.IntVar(&req.PasswordLength, "password-length", mikrotik.DefaultPasswordLength, "length of generated passwords")
	f.StringVar(&req.Profile, "profile", "", "profile for every account")
	f.StringVar(&req.Server, "server", "", "Hotspot server for every account")
	f.StringVar(&req.Comment, "comment", "", "comment for every account")
	return cmd
}

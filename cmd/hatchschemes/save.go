package main

import (
	"fmt"

	"github.com/mugiliam/hatchschemesrv/internal/app"
	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Load all schemes and save the ones that changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			a, err := app.Init(ctx, config.Config())
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.SaveAll(ctx)
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Report == nil {
					continue
				}
				fmt.Fprintf(out, "%s: %d written, %d unmodified, %d deleted\n",
					r.Directory, len(r.Report.Written), len(r.Report.Unmodified), len(r.Report.Deleted))
				if r.Error != "" {
					fmt.Fprintf(out, "%s: %s\n", r.Directory, r.Error)
				}
			}
			return err
		},
	}
}

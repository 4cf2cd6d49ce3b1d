package main

import (
	"fmt"

	"github.com/mugiliam/hatchschemesrv/internal/app"
	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scheme managers and their schemes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			a, err := app.Init(ctx, config.Config())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, f := range a.Factories() {
				fmt.Fprintf(out, "%s\n", f.Scope().ProjectID)
				for _, m := range f.Managers() {
					fmt.Fprintf(out, "  %s (%s, roaming %s)\n", m.PresentableName(), m.DirectoryName(), m.RoamingType())
					current := m.CurrentName()
					for _, name := range m.AllSchemeNames() {
						marker := " "
						if name == current {
							marker = "*"
						}
						fmt.Fprintf(out, "   %s %s\n", marker, name)
					}
				}
			}
			return nil
		},
	}
}

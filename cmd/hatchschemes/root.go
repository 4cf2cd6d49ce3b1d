package main

import (
	"github.com/mugiliam/hatchschemesrv/internal/config"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:   "hatchschemes",
		Short: "Hatch scheme server",
		Long: `hatchschemes keeps the named schemes of an application (color schemes,
keymaps, code styles) and persists them per application or per project.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var (
				c   *config.ConfigParam
				err error
			)
			if configPath != "" {
				c, err = config.Load(configPath)
			} else {
				c, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}
			config.SetupLogging(c, cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default $"+config.ConfigEnv+" or "+config.DefaultConfigFile+")")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newSaveCommand())
	return rootCmd
}

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xraph/locator/config"
)

var (
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

type rootOptions struct {
	configPath string
}

func (o *rootOptions) load() (config.Config, error) {
	return config.Load(o.configPath)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "locator",
		Short:         "Build and host service locators over golobby or dig",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the YAML configuration file")

	cmd.AddCommand(
		newCheckCommand(opts),
		newServeCommand(opts),
	)

	return cmd
}

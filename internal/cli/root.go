// Package cli команды операторской утилиты subsightctl.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshpatel-22/subsight-backend/internal/config"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd собирает дерево команд.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "subsightctl",
		Short:         "Operator tool for the SubSight backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to config file (defaults to $CONFIG_PATH)")

	root.AddCommand(
		newSweepCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	if o.configPath == "" {
		return nil, fmt.Errorf("config path is not set: use --config or CONFIG_PATH")
	}
	return config.Load(o.configPath)
}

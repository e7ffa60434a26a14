package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harshpatel-22/subsight-backend/internal/migrations"
	"github.com/harshpatel-22/subsight-backend/internal/storage/repository"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Run(db.DB); err != nil {
				return err
			}
			version, dirty, err := migrations.Version(db.DB)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return err
		},
	}
}

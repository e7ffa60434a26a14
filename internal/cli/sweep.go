package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harshpatel-22/subsight-backend/internal/app/subsight"
	"github.com/harshpatel-22/subsight-backend/internal/cache"
	"github.com/harshpatel-22/subsight-backend/internal/lib/logger"
	"github.com/harshpatel-22/subsight-backend/internal/storage/repository"
)

const dateLayout = "2006-01-02"

// parseSweepDate разбирает дату прогона в поясе loc. Пустая строка означает сегодня.
func parseSweepDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return now.In(loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
	}
	return day, nil
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder sweep now",
		Long:  "Run one reminder sweep for today or for --date. Realtime push is skipped: the CLI holds no connections.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			loc, err := cfg.Reminder.Location()
			if err != nil {
				return err
			}
			day, err := parseSweepDate(date, time.Now(), loc)
			if err != nil {
				return err
			}

			log := logger.Setup(cfg.Env)
			ctx := cmd.Context()

			db, err := repository.New(cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer db.Close()

			var redis *cache.Cache
			if cfg.DedupeSameDay {
				redis, err = cache.InitServer(ctx, cfg.RedisConnection)
				if err != nil {
					return err
				}
				defer redis.Close()
			}

			mailer, err := subsight.NewMailer(cfg, log)
			if err != nil {
				return err
			}
			defer mailer.Close()

			engine, err := subsight.NewReminderEngine(cfg, log, db, mailer, redis, nil)
			if err != nil {
				return err
			}
			report, err := engine.RunSweepAt(ctx, day, nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "sweep date YYYY-MM-DD in reminder.timezone (default today)")
	return cmd
}

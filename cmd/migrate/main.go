package main

import (
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandTables(),
			commandSeedDailyRewards(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func commandTables() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "create all tables and indexes",
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}

			ctx := c.Context
			steps := []func() error{
				func() error { return datastore.CreateTableUser(ctx, db) },
				func() error { return datastore.CreateTableGame(ctx, db) },
				func() error { return datastore.CreateTableDailyReward(ctx, db) },
				func() error { return datastore.CreateTableBonusTask(ctx, db) },
				func() error { return datastore.CreateTableReferralLink(ctx, db) },
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}

			log.Println("tables created")
			return nil
		},
	}
}

// commandSeedDailyRewards fills the ladder with a doubling progression
// starting from the base amount; existing rungs are left untouched.
func commandSeedDailyRewards() *cli.Command {
	return &cli.Command{
		Name:  "seed-daily-rewards",
		Usage: "seed the daily reward ladder",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Value: 7,
			},
			&cli.Int64Flag{
				Name:  "base",
				Value: 100,
			},
		},
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}

			ctx := c.Context
			amount := c.Int64("base")
			for day := 1; day <= c.Int("days"); day++ {
				_, err := db.NewInsert().
					Model(&models.DailyReward{Day: day, RewardAmount: amount}).
					On("CONFLICT (day) DO NOTHING").
					Exec(ctx)
				if err != nil {
					return err
				}
				log.Println("day " + strconv.Itoa(day) + ": " + strconv.FormatInt(amount, 10))
				amount *= 2
			}

			return nil
		},
	}
}

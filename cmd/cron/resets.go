package main

import (
	"context"
	"log"
	"time"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// DailyResetJob runs the midnight bookkeeping: energy refill, daily
// highscore wipe and daily profit wipe. Every update is conditional, so a
// rerun after a crash touches nothing.
type DailyResetJob struct {
	Db  *bun.DB
	Cfg *models.EconomyConfig
}

func NewDailyResetJob(db *bun.DB, cfg *models.EconomyConfig) *DailyResetJob {
	return &DailyResetJob{
		Db:  db,
		Cfg: cfg,
	}
}

func (j *DailyResetJob) Start(cronRunner *cron.Cron) error {
	_, err := cronRunner.AddFunc("0 0 * * *", j.runScheduledTask)
	if err != nil {
		return err
	}
	log.Println("Daily reset cronjob registered at:", time.Now().UTC().Format("2006-01-02 15:04:05"))
	return nil
}

func (j *DailyResetJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start daily reset ...")

	if err := datastore.ResetGameEnergy(ctx, j.Db, j.Cfg.DailyGameEnergy); err != nil {
		log.Println("ResetGameEnergy error:", err)
	}

	if err := datastore.ResetDailyHighscore(ctx, j.Db); err != nil {
		log.Println("ResetDailyHighscore error:", err)
	}

	if err := datastore.ResetDailyOverallProfit(ctx, j.Db); err != nil {
		log.Println("ResetDailyOverallProfit error:", err)
	}

	log.Println("Daily reset done")
}

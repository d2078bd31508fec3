// scheduler.go
//
// Record-keeping service for the Ramnagar High School mid-day meal programme
// Copyright (c) 2026 Ramnagar High School <mdm@ramnagarhs.edu>
//
// This file is part of mdm-service.
// mdm-service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mdm-service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mdm-service.
// If not, see <https://www.gnu.org/licenses/>.

// Package jobs runs the scheduled maintenance tasks: the daily report, the
// rice stock check, the weekly summary, notification cleanup and the nightly
// backup. Job failures are logged and the next run proceeds; there is no
// retry.
package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/mailer"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// notificationMaxAge is how long notifications are kept before cleanup.
const notificationMaxAge = 30 * 24 * time.Hour

// Scheduler owns the cron instance and the resources jobs need.
type Scheduler struct {
	db     *gorm.DB
	cfg    *config.Config
	mail   *mailer.Mailer
	cron   *cron.Cron
	logger *log.Logger
}

// New builds a scheduler in the configured timezone. An unknown timezone
// falls back to UTC with a logged warning.
func New(db *gorm.DB, cfg *config.Config, mail *mailer.Mailer, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Printf("unknown timezone %q, using UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}

	return &Scheduler{
		db:     db,
		cfg:    cfg,
		mail:   mail,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func() error
	}{
		{"0 18 * * *", "daily report", s.DailyReport},
		{"0 */6 * * *", "stock check", s.StockCheck},
		{"0 17 * * 5", "weekly summary", s.WeeklySummary},
		{"0 0 * * *", "notification cleanup", s.NotificationCleanup},
		{"0 2 * * *", "daily backup", s.DailyBackup},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			if err := job.run(); err != nil {
				s.logger.Printf("job %s failed: %v", job.name, err)
			}
		})
		if err != nil {
			return fmt.Errorf("registering %s: %w", job.name, err)
		}
	}

	s.cron.Start()
	s.logger.Printf("scheduler started with %d jobs in %s", len(jobs), s.cfg.Timezone)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// DailyReport emails the day's meal records to the admin address.
func (s *Scheduler) DailyReport() error {
	today := time.Now().Format("2006-01-02")
	entries, err := services.ListFormCBetween(s.db, today, today)
	if err != nil {
		return err
	}

	return s.mail.SendToAdmin("Daily MDM report "+today, mailer.DailyReportHTML(today, entries))
}

// StockCheck alerts when the rice stock drops below the threshold. The alert
// goes out both as email and as a broadcast warning notification.
func (s *Scheduler) StockCheck() error {
	stats, err := services.GetDashboardStats(s.db)
	if err != nil {
		return err
	}
	if stats.RiceStock >= s.cfg.LowStockThreshold {
		return nil
	}

	_, err = services.CreateNotification(s.db, services.NotificationInput{
		Title:    "Low rice stock",
		Message:  fmt.Sprintf("Rice stock is down to %.2f kg", stats.RiceStock),
		Type:     models.NotifyWarning,
		Priority: models.PriorityHigh,
	})
	if err != nil {
		return err
	}

	return s.mail.SendToAdmin("Low rice stock alert",
		mailer.LowStockHTML(stats.RiceStock, s.cfg.LowStockThreshold))
}

// WeeklySummary emails the last seven days of meal records.
func (s *Scheduler) WeeklySummary() error {
	to := time.Now().Format("2006-01-02")
	from := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	entries, err := services.ListFormCBetween(s.db, from, to)
	if err != nil {
		return err
	}

	return s.mail.SendToAdmin("Weekly MDM summary", mailer.WeeklySummaryHTML(from, to, entries))
}

// NotificationCleanup removes notifications older than 30 days.
func (s *Scheduler) NotificationCleanup() error {
	removed, err := services.CleanupNotifications(s.db, notificationMaxAge)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Printf("removed %d stale notifications", removed)
	}
	return nil
}

// DailyBackup snapshots the database and prunes old files past retention.
func (s *Scheduler) DailyBackup() error {
	filename, err := services.WriteBackupFile(s.db, s.cfg.BackupDir, services.BackupPrefixAuto)
	if err != nil {
		return err
	}
	s.logger.Printf("wrote backup %s", filename)

	pruned, err := services.PruneBackups(s.cfg.BackupDir, s.cfg.BackupRetention)
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Printf("pruned %d old backups", pruned)
	}
	return nil
}

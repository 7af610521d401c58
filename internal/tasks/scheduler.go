// Package tasks runs the background jobs: reminder conversion, transaction
// archiving, budget roll-over, and database backups. Jobs never overlap
// with themselves; cron skips a tick while the previous run is still going.
package tasks

import (
	"github.com/robfig/cron/v3"

	"moneta/internal/clock"
	"moneta/internal/logger"
	"moneta/internal/services"
)

// Scheduler owns the cron runner and the job wiring.
type Scheduler struct {
	cron      *cron.Cron
	clock     clock.Clock
	reminders services.ReminderService
	budgets   services.BudgetService
	archive   services.ArchiveService
	backup    *Backup
}

func NewScheduler(clk clock.Clock, reminders services.ReminderService, budgets services.BudgetService, archive services.ArchiveService, backup *Backup) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		clock:     clk,
		reminders: reminders,
		budgets:   budgets,
		archive:   archive,
		backup:    backup,
	}
}

// Start registers the jobs and begins the schedule. Conversion runs just
// after midnight so reminders due today materialize before anyone looks at
// their accounts; archiving and roll-over follow.
func (s *Scheduler) Start() error {
	log := logger.Get()
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"1 0 * * *", "convert_reminders", s.convertReminders},
		{"10 0 * * *", "archive_transactions", s.archiveTransactions},
		{"20 0 * * *", "roll_over_budgets", s.rollOverBudgets},
		{"0 * * * *", "create_backup", s.createBackup},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return err
		}
		log.Infow("scheduled task registered", "task", j.name, "spec", j.spec)
	}
	s.cron.Start()
	return nil
}

// Stop stops the schedule and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) convertReminders() {
	s.reminders.ConvertDue(s.clock.Today())
}

func (s *Scheduler) archiveTransactions() {
	if _, err := s.archive.Sweep(s.clock.Today()); err != nil {
		logger.Get().Errorw("archive sweep failed", "error", err)
	}
}

func (s *Scheduler) rollOverBudgets() {
	s.budgets.RollOver(s.clock.Today())
}

func (s *Scheduler) createBackup() {
	if s.backup == nil {
		return
	}
	if err := s.backup.Run(); err != nil {
		logger.Get().Errorw("database backup failed", "error", err)
	}
}

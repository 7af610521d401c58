package tasks

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"moneta/internal/config"
	"moneta/internal/logger"
)

// keepBackups is how many dump files the rotation retains.
const keepBackups = 48

// Backup dumps the database with pg_dump into the backup directory and
// rotates old dumps.
type Backup struct {
	cfg *config.Config
}

func NewBackup(cfg *config.Config) *Backup {
	return &Backup{cfg: cfg}
}

func (b *Backup) Run() error {
	if err := os.MkdirAll(b.cfg.BackupDir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.sql", b.cfg.DBName, time.Now().Format("20060102_150405"))
	path := filepath.Join(b.cfg.BackupDir, name)

	cmd := exec.Command("pg_dump",
		"-h", b.cfg.DBHost,
		"-p", b.cfg.DBPort,
		"-U", b.cfg.DBUser,
		"-d", b.cfg.DBName,
		"-f", path,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+b.cfg.DBPassword)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return fmt.Errorf("pg_dump: %w: %s", err, strings.TrimSpace(string(out)))
	}
	logger.Get().Infow("database backup written", "path", path)
	return b.rotate()
}

// rotate deletes the oldest dumps beyond the retention count.
func (b *Backup) rotate() error {
	pattern := filepath.Join(b.cfg.BackupDir, b.cfg.DBName+"_*.sql")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) <= keepBackups {
		return nil
	}
	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-keepBackups] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

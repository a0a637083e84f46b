package server

import (
	"context"
	"errors"

	"github.com/vitahq/vita/server/cron"
	"github.com/vitahq/vita/server/gstorage"
	"github.com/vitahq/vita/server/session"
	"github.com/vitahq/vita/utils"
)

const (
	PURGE_SESSIONS_JOB      = "purgeExpiredSessions"
	PURGE_SESSIONS_SCHEDULE = "0 * * * *"
	BACKUP_SQLITE_JOB       = "backupSqliteDb"
)

func purgeExpiredSessions(store session.Store) cron.Handler {
	return func() error {
		count, err := store.DeleteExpired(context.Background())
		if err != nil {
			return err
		}

		if count > 0 {
			logg.Infof("Purged %v expired session(s)", count)
		}
		return nil
	}
}

func backupSqliteDb(storage *gstorage.GStorage, dbFilePath string) cron.Handler {
	return func() error {
		return storage.UploadFile(context.Background(), dbFilePath)
	}
}

// restoreSqliteDb pulls the last backup from google storage when there is
// no local db yet. A missing backup just means this is the first run.
func restoreSqliteDb(storage *gstorage.GStorage, dbFilePath string) error {
	if utils.FileExist(dbFilePath) {
		return nil
	}

	err := storage.DownloadFile(context.Background(), dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Infof("No sqlite backup found in google storage, starting with a new db")
		return nil
	}

	return err
}

func registerJobs(scheduler *cron.Scheduler, store session.Store) error {
	err := scheduler.Register(PURGE_SESSIONS_JOB, purgeExpiredSessions(store))
	if err != nil {
		return err
	}

	return scheduler.PeriodicallyPerform(PURGE_SESSIONS_SCHEDULE, PURGE_SESSIONS_JOB)
}

func registerBackupJob(scheduler *cron.Scheduler, backup cron.Handler, schedule string) error {
	err := scheduler.Register(BACKUP_SQLITE_JOB, backup)
	if err != nil {
		return err
	}

	return scheduler.PeriodicallyPerform(schedule, BACKUP_SQLITE_JOB)
}

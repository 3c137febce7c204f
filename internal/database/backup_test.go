package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ruangkampus/internal/config"
	"ruangkampus/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "loans.db")
	nop := zerolog.Nop()

	db, err := NewDB(dbPath, &nop)
	require.NoError(t, err)
	require.NoError(t, db.CreateLoan(context.Background(), &models.Loan{
		BorrowerName: "budi",
		RoomName:     "Ruang Seminar A",
		StartTime:    time.Now().Add(time.Hour),
		EndTime:      time.Now().Add(2 * time.Hour),
		Purpose:      "test",
		Status:       models.StatusPending,
	}))
	require.NoError(t, db.Close())

	storage := filepath.Join(tmpDir, "backups")
	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:     true,
		StoragePath: storage,
	}, &nop)

	require.NoError(t, svc.PerformBackup())

	entries, err := os.ReadDir(storage)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "loans_")
}

func TestCleanupOldBackups(t *testing.T) {
	tmpDir := t.TempDir()
	storage := filepath.Join(tmpDir, "backups")
	require.NoError(t, os.MkdirAll(storage, 0o755))

	old := filepath.Join(storage, "loans_old.db")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	past := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(old, past, past))

	fresh := filepath.Join(storage, "loans_new.db")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	nop := zerolog.Nop()
	svc := NewBackupService(filepath.Join(tmpDir, "loans.db"), config.BackupConfig{
		Enabled:       true,
		StoragePath:   storage,
		RetentionDays: 7,
	}, &nop)
	svc.CleanupOldBackups()

	entries, err := os.ReadDir(storage)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "loans_new.db", entries[0].Name())
}

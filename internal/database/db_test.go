package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "sub", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(started time.Time) *models.Run {
	return &models.Run{
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Server:     "https://zabbix.example.com",
		Group:      "Routers",
		PeriodDays: 30,
		HostCount:  2,
		OutputPath: "Routers_availability.pdf",
		Status:     models.RunSucceeded,
		Hosts: []models.HostAvailability{
			{Host: "edge-1", IP: "10.0.0.1", Availability: 100, PeriodDays: 30},
			{Host: "edge-2", IP: "", Availability: 97.5, DowntimeSeconds: 64800, PeriodDays: 30},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := newTestDB(t)
	started := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	run := sampleRun(started)
	id, err := db.SaveRun(run)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)

	got, err := db.GetRun(id)
	require.NoError(t, err)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 3*time.Second, got.Duration())
	assert.Equal(t, "Routers", got.Group)
	assert.Equal(t, models.RunSucceeded, got.Status)
	require.Len(t, got.Hosts, 2)
	assert.Equal(t, "edge-1", got.Hosts[0].Host)
	assert.Equal(t, "edge-2", got.Hosts[1].Host)
	assert.Equal(t, int64(64800), got.Hosts[1].DowntimeSeconds)
	assert.Equal(t, 30, got.Hosts[1].PeriodDays)
}

func TestGetRunNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetRun(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveFailedRunWithoutHosts(t *testing.T) {
	db := newTestDB(t)
	run := &models.Run{
		StartedAt:    time.Now(),
		Server:       "https://zabbix.example.com",
		Group:        "Empty",
		PeriodDays:   7,
		Status:       models.RunFailed,
		ErrorMessage: "no data found for the given criteria",
	}
	id, err := db.SaveRun(run)
	require.NoError(t, err)

	got, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Empty(t, got.Hosts)
	assert.True(t, got.FinishedAt.IsZero())
	assert.Equal(t, "no data found for the given criteria", got.ErrorMessage)
}

func TestListRunsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		run.Group = []string{"a", "b", "c", "d", "e"}[i]
		_, err := db.SaveRun(run)
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "e", runs[0].Group)
	assert.Equal(t, "c", runs[2].Group)
	assert.Nil(t, runs[0].Hosts)

	all, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListRunsEmpty(t *testing.T) {
	db := newTestDB(t)
	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestPruneRuns(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	oldID, err := db.SaveRun(sampleRun(now.AddDate(0, 0, -40)))
	require.NoError(t, err)
	newID, err := db.SaveRun(sampleRun(now.AddDate(0, 0, -5)))
	require.NoError(t, err)

	deleted, err := db.PruneRuns(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = db.GetRun(oldID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	var orphans int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM run_hosts WHERE run_id = ?`, oldID).Scan(&orphans))
	assert.Zero(t, orphans)

	kept, err := db.GetRun(newID)
	require.NoError(t, err)
	assert.Len(t, kept.Hosts, 2)
}

func TestPruneRunsVacuumOnFirstOfMonth(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	_, err := db.SaveRun(sampleRun(now.AddDate(-1, 0, 0)))
	require.NoError(t, err)

	deleted, err := db.PruneRuns(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestPruneRunsDisabled(t *testing.T) {
	db := newTestDB(t)
	_, err := db.SaveRun(sampleRun(time.Now().AddDate(-5, 0, 0)))
	require.NoError(t, err)

	deleted, err := db.PruneRuns(0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

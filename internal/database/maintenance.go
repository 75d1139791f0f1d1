package database

// PruneRuns deletes runs that started more than retentionDays ago, with
// their host rows. A non-positive retention keeps everything.
func (db *DB) PruneRuns(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	now := db.now()
	cutoff := now.AddDate(0, 0, -retentionDays).UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        DELETE FROM run_hosts
        WHERE run_id IN (SELECT id FROM report_runs WHERE started_at < ?)
    `, cutoff); err != nil {
		return 0, err
	}

	res, err := tx.Exec(`DELETE FROM report_runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	// Vacuum to reclaim space (run occasionally)
	if deleted > 0 && now.Day() == 1 {
		if _, err := db.Exec("VACUUM"); err != nil {
			return deleted, err
		}
	}

	return deleted, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.DB.Close()
}


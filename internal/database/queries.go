package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

// ErrRunNotFound is returned by GetRun for an unknown id
var ErrRunNotFound = errors.New("run not found")

var _ models.History = (*DB)(nil)

// DefaultListLimit is used when ListRuns gets a non-positive limit
const DefaultListLimit = 20

// SaveRun stores a run and its host rows, and sets run.ID
func (db *DB) SaveRun(run *models.Run) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        INSERT INTO report_runs (started_at, finished_at, server, group_name, period_days,
                                 host_count, output_path, status, error_message)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		toMillis(run.StartedAt),
		toMillis(run.FinishedAt),
		run.Server,
		run.Group,
		run.PeriodDays,
		run.HostCount,
		run.OutputPath,
		run.Status,
		run.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
        INSERT INTO run_hosts (run_id, position, host, ip, availability, downtime_seconds)
        VALUES (?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, h := range run.Hosts {
		if _, err := stmt.Exec(id, i, h.Host, h.IP, h.Availability, h.DowntimeSeconds); err != nil {
			return 0, fmt.Errorf("insert host %q: %w", h.Host, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	run.ID = id
	return id, nil
}

const runColumns = `id, started_at, finished_at, server, group_name, period_days,
                    host_count, output_path, status, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var (
		r                 models.Run
		started, finished sql.NullInt64
		output, errMsg    sql.NullString
	)
	err := row.Scan(&r.ID, &started, &finished, &r.Server, &r.Group, &r.PeriodDays,
		&r.HostCount, &output, &r.Status, &errMsg)
	if err != nil {
		return r, err
	}
	r.StartedAt = fromMillis(started)
	r.FinishedAt = fromMillis(finished)
	r.OutputPath = output.String
	r.ErrorMessage = errMsg.String
	return r, nil
}

// ListRuns returns the most recent runs first, without host rows
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.Query(`
        SELECT `+runColumns+`
        FROM report_runs
        ORDER BY started_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRun returns one run with its host rows
func (db *DB) GetRun(id int64) (*models.Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM report_runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	hosts, err := db.GetRunHosts(id)
	if err != nil {
		return nil, err
	}
	r.Hosts = hosts
	return &r, nil
}

// GetRunHosts returns the host rows of a run in report order
func (db *DB) GetRunHosts(runID int64) ([]models.HostAvailability, error) {
	rows, err := db.Query(`
        SELECT r.period_days, h.host, h.ip, h.availability, h.downtime_seconds
        FROM run_hosts h
        JOIN report_runs r ON r.id = h.run_id
        WHERE h.run_id = ?
        ORDER BY h.position
    `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hosts []models.HostAvailability
	for rows.Next() {
		var h models.HostAvailability
		var ip sql.NullString
		if err := rows.Scan(&h.PeriodDays, &h.Host, &ip, &h.Availability, &h.DowntimeSeconds); err != nil {
			return nil, err
		}
		h.IP = ip.String
		hosts = append(hosts, h)
	}

	return hosts, rows.Err()
}

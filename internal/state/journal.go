package state

import (
	"database/sql"
	"fmt"
	"time"

	"download_planner/internal/download/types"
	"download_planner/internal/protocol"
)

// Record is the journal row of one planned job.
type Record struct {
	GID         string
	Kind        protocol.Kind
	MetadataURI string
	InfoHash    string
	Path        string
	URICount    int
	Concurrency int
	CreatedAt   time.Time
}

// RecordFromJob extracts the journal row of j.
func RecordFromJob(j *types.Job, now time.Time) Record {
	r := Record{
		GID:         j.GID,
		Kind:        j.Kind,
		Concurrency: j.NumConcurrentCommand,
		CreatedAt:   now,
	}
	if j.Metadata != nil && !j.Metadata.DataOnly {
		r.MetadataURI = j.Metadata.URI
	}
	if j.Context != nil {
		if j.Context.Attrs != nil {
			r.InfoHash = j.Context.Attrs.InfoHash
		}
		if fe := j.Context.FirstFileEntry(); fe != nil {
			r.Path = fe.Path
			r.URICount = len(fe.URIs)
		}
	}
	return r
}

// RecordJobs appends jobs to the journal in one transaction.
func RecordJobs(jobs []*types.Job) error {
	now := time.Now()
	return withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO jobs
			(gid, kind, metadata_uri, info_hash, path, uri_count, concurrency, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, j := range jobs {
			r := RecordFromJob(j, now)
			if _, err := stmt.Exec(r.GID, r.Kind.String(), r.MetadataURI, r.InfoHash, r.Path,
				r.URICount, r.Concurrency, r.CreatedAt.UnixNano()); err != nil {
				return fmt.Errorf("failed to record job %s: %w", r.GID, err)
			}
		}
		return nil
	})
}

// LoadRecords returns every journal row, oldest first.
func LoadRecords() ([]Record, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}
	rows, err := d.Query(`SELECT gid, kind, metadata_uri, info_hash, path, uri_count, concurrency, created_at
		FROM jobs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			kind    string
			created int64
		)
		if err := rows.Scan(&r.GID, &kind, &r.MetadataURI, &r.InfoHash, &r.Path,
			&r.URICount, &r.Concurrency, &created); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		r.Kind = protocol.ParseKind(kind)
		r.CreatedAt = time.Unix(0, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// IsKnown reports whether a job planned from metadataURI was recorded
// before. Empty URIs are never known.
func IsKnown(metadataURI string) (bool, error) {
	if metadataURI == "" {
		return false, nil
	}
	d, err := GetDB()
	if err != nil {
		return false, err
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM jobs WHERE metadata_uri = ?`, metadataURI).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query journal: %w", err)
	}
	return n > 0, nil
}

// FilterKnown drops jobs whose descriptor already appears in the journal.
func FilterKnown(jobs []*types.Job) ([]*types.Job, error) {
	kept := make([]*types.Job, 0, len(jobs))
	for _, j := range jobs {
		uri := ""
		if j.Metadata != nil && !j.Metadata.DataOnly {
			uri = j.Metadata.URI
		}
		known, err := IsKnown(uri)
		if err != nil {
			return nil, err
		}
		if !known {
			kept = append(kept, j)
		}
	}
	return kept, nil
}

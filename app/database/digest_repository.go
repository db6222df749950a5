package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLDigestRepository handles database operations for digest records
type SQLDigestRepository struct {
	db *DB
}

var _ DigestRepository = (*SQLDigestRepository)(nil)

func NewDigestRepository(db *DB) *SQLDigestRepository {
	return &SQLDigestRepository{db: db}
}

// UpsertDigest registers a digest, updating the feed URL if it changed
func (r *SQLDigestRepository) UpsertDigest(digestName, feedURL string) error {
	_, err := r.db.Exec(`
		INSERT INTO digests (name, feed_url)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			feed_url = excluded.feed_url,
			updated_at = CURRENT_TIMESTAMP
	`, digestName, feedURL)

	if err != nil {
		return fmt.Errorf("failed to upsert digest: %w", err)
	}

	return nil
}

func (r *SQLDigestRepository) GetDigest(digestName string) (*Digest, error) {
	var digest Digest
	err := r.db.QueryRow(`
		SELECT name, feed_url, last_run_at, last_status, next_fire_at, created_at, updated_at
		FROM digests
		WHERE name = ?
	`, digestName).Scan(
		&digest.Name, &digest.FeedURL, &digest.LastRunAt, &digest.LastStatus,
		&digest.NextFireAt, &digest.CreatedAt, &digest.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}

	return &digest, nil
}

// UpdateRunResult records the terminal outcome of a pipeline run
func (r *SQLDigestRepository) UpdateRunResult(digestName string, status string, runAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE digests
		SET last_run_at = ?, last_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, runAt.UTC(), status, digestName)

	if err != nil {
		return fmt.Errorf("failed to update run result: %w", err)
	}

	return nil
}

// UpdateNextFire records the next scheduled fire time; nil clears the schedule
func (r *SQLDigestRepository) UpdateNextFire(digestName string, nextFire *time.Time) error {
	var value any
	if nextFire != nil {
		utc := nextFire.UTC()
		value = utc
	}

	_, err := r.db.Exec(`
		UPDATE digests
		SET next_fire_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, value, digestName)

	if err != nil {
		return fmt.Errorf("failed to update next fire time: %w", err)
	}

	return nil
}

func (r *SQLDigestRepository) GetDigestCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM digests").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get digest count: %w", err)
	}
	return count, nil
}

package database

import (
	"fmt"
)

// SQLHistoryRepository persists the emitted-link history of each digest.
// Insertion order is carried by the autoincrement id column so that capacity
// pruning always evicts the oldest links first.
type SQLHistoryRepository struct {
	db *DB
}

var _ HistoryRepository = (*SQLHistoryRepository)(nil)

func NewHistoryRepository(db *DB) *SQLHistoryRepository {
	return &SQLHistoryRepository{db: db}
}

func (r *SQLHistoryRepository) GetLinks(digestName string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT link
		FROM emitted_links
		WHERE digest_name = ?
		ORDER BY id ASC
	`, digestName)
	if err != nil {
		return nil, fmt.Errorf("failed to get emitted links: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link rows: %w", err)
	}

	return links, nil
}

func (r *SQLHistoryRepository) GetLinkCount(digestName string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM emitted_links WHERE digest_name = ?
	`, digestName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get link count: %w", err)
	}
	return count, nil
}

// ReplaceLinks swaps the stored history in a single transaction so a
// concurrent reader never observes a partially pruned history.
func (r *SQLHistoryRepository) ReplaceLinks(digestName string, links []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM emitted_links WHERE digest_name = ?`, digestName); err != nil {
		return fmt.Errorf("failed to clear emitted links: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO emitted_links (digest_name, link) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range links {
		if _, err := stmt.Exec(digestName, link); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history update: %w", err)
	}

	return nil
}

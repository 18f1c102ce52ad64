package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roastivator/roastivator/internal/models"
)

// SnapshotCacheRepository stores assembled snapshots in SQLite so repeated
// lookups of the same profile inside the TTL window skip the GitHub API entirely
type SnapshotCacheRepository struct {
	db *sql.DB
}

func NewSnapshotCacheRepository(db *sql.DB) *SnapshotCacheRepository {
	return &SnapshotCacheRepository{db: db}
}

// Get returns the cached snapshot for a username if one exists and is no older
// than maxAge. A miss or a stale entry returns (nil, nil).
func (r *SnapshotCacheRepository) Get(username string, maxAge time.Duration) (*models.Snapshot, error) {
	var (
		payload   string
		fetchedAt time.Time
	)

	query := "SELECT snapshot, fetched_at FROM snapshot_cache WHERE username = ?"
	err := r.db.QueryRow(query, strings.ToLower(username)).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}

	if time.Since(fetchedAt) > maxAge {
		return nil, nil
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached snapshot: %w", err)
	}

	return &snapshot, nil
}

// Set stores a snapshot for a username, replacing any previous entry
func (r *SnapshotCacheRepository) Set(username string, snapshot *models.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `INSERT INTO snapshot_cache (id, username, snapshot, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET snapshot = excluded.snapshot, fetched_at = excluded.fetched_at`

	_, err = r.db.Exec(query, uuid.New().String(), strings.ToLower(username), string(payload), snapshot.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}

	return nil
}

// Purge removes entries older than maxAge
func (r *SnapshotCacheRepository) Purge(maxAge time.Duration) error {
	_, err := r.db.Exec("DELETE FROM snapshot_cache WHERE fetched_at < ?", time.Now().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("failed to purge snapshot cache: %w", err)
	}
	return nil
}

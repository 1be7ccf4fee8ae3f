package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_hub/internal/domain"
)

type StateStore struct {
	db *sqlx.DB
}

func NewStateStore(db *sqlx.DB) *StateStore {
	return &StateStore{db: db}
}

func (s *StateStore) Get(ctx context.Context, sourceID string) (*domain.IngestState, error) {
	var state domain.IngestState
	query := `
		SELECT id, source_id, last_run_at, last_inserted, total_inserted
		FROM ingest_state
		WHERE source_id = $1`

	err := s.db.GetContext(ctx, &state, query, sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for sources that never ran
		return &domain.IngestState{SourceID: sourceID}, nil
	}
	if err != nil {
		return nil, err
	}
	state.LastRunAt = state.LastRunAt.UTC()
	return &state, nil
}

func (s *StateStore) Update(ctx context.Context, state *domain.IngestState) error {
	query := `
		INSERT INTO ingest_state (source_id, last_run_at, last_inserted, total_inserted)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_id) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			last_inserted = EXCLUDED.last_inserted,
			total_inserted = EXCLUDED.total_inserted`

	_, err := s.db.ExecContext(ctx, query,
		state.SourceID,
		state.LastRunAt.UTC(),
		state.LastInserted,
		state.TotalInserted,
	)
	return err
}

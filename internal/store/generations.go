package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/scenegen/internal/ir"
)

// Generation status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Generation records one model call that produced (or failed to produce)
// a scene. SceneID is empty when the call failed.
type Generation struct {
	ID               string    `json:"id"`
	SceneID          string    `json:"scene_id,omitempty"`
	Source           string    `json:"source"`
	ChunkIndex       int       `json:"chunk_index"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	Error            string    `json:"error,omitempty"`
	RawOutput        string    `json:"raw_output,omitempty"`
	GeneratorVersion string    `json:"generator_version"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecordGeneration appends a generation record. A missing ID is filled from
// the store's id source (UUIDv7 by default), a missing timestamp with the store clock, and a missing status
// is derived from SceneID. The filled-in values are written back to g.
func (s *Store) RecordGeneration(ctx context.Context, g *Generation) error {
	if g == nil {
		return fmt.Errorf("record generation: nil generation")
	}
	if g.ID == "" {
		id, err := s.newID()
		if err != nil {
			return fmt.Errorf("record generation: new id: %w", err)
		}
		g.ID = id
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	if g.GeneratorVersion == "" {
		g.GeneratorVersion = ir.GeneratorVersion
	}
	if g.Status == "" {
		g.Status = StatusOK
		if g.SceneID == "" {
			g.Status = StatusError
		}
	}

	var sceneID sql.NullString
	if g.SceneID != "" {
		sceneID = sql.NullString{String: g.SceneID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, scene_id, source, chunk_index, model, status,
			error, raw_output, generator_version, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID,
		sceneID,
		g.Source,
		g.ChunkIndex,
		g.Model,
		g.Status,
		g.Error,
		g.RawOutput,
		g.GeneratorVersion,
		formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert generation %s: %w", g.ID, err)
	}
	return nil
}

// ListGenerations returns generation records in insertion order.
// An empty sceneID lists every record.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListGenerations(ctx context.Context, sceneID string) ([]Generation, error) {
	query := `
		SELECT id, scene_id, source, chunk_index, model, status,
			error, raw_output, generator_version, created_at
		FROM generations
	`
	var args []any
	if sceneID != "" {
		query += ` WHERE scene_id = ?`
		args = append(args, sceneID)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	gens := []Generation{}
	for rows.Next() {
		var g Generation
		var sid sql.NullString
		var created string
		if err := rows.Scan(
			&g.ID, &sid, &g.Source, &g.ChunkIndex, &g.Model, &g.Status,
			&g.Error, &g.RawOutput, &g.GeneratorVersion, &created,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		g.SceneID = sid.String
		if g.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("generation %s: %w", g.ID, err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return gens, nil
}

func (s *Store) newID() (string, error) {
	if s.ids != nil {
		return s.ids(), nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

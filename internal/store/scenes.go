package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/scenegen/internal/ir"
)

// SceneSummary is the list view of a stored scene.
type SceneSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Objects    int       `json:"objects"`
	Animations int       `json:"animations"`
	Duration   float64   `json:"duration"`
	IRVersion  string    `json:"ir_version"`
	CreatedAt  time.Time `json:"created_at"`
}

// PutScene stores a scene under its content-addressed id.
// Writing a scene that is already stored is a no-op and reports
// inserted=false. The stored bytes are the exact encoding, and a scene
// whose id is taken by different content fails with ErrConflict.
func (s *Store) PutScene(ctx context.Context, scene *ir.SceneStructure) (id string, inserted bool, err error) {
	if scene == nil {
		return "", false, fmt.Errorf("put scene: nil scene")
	}

	id, err = ir.SceneID(scene)
	if err != nil {
		return "", false, fmt.Errorf("put scene: %w", err)
	}
	data, err := ir.Encode(scene)
	if err != nil {
		return "", false, fmt.Errorf("put scene: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scenes (
			id, title, scene_json, object_count, animation_count,
			duration, ir_version, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		scene.Settings.Title,
		string(data),
		len(scene.Objects),
		len(scene.Animations),
		scene.Settings.Duration,
		ir.IRVersion,
		formatTime(s.now()),
	)
	if err != nil {
		return "", false, fmt.Errorf("insert scene %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("insert scene %s: rows affected: %w", id, err)
	}
	if n > 0 {
		return id, true, nil
	}

	stored, err := s.GetScene(ctx, id)
	if err != nil {
		return "", false, fmt.Errorf("put scene: %w", err)
	}
	storedData, err := ir.Encode(stored)
	if err != nil {
		return "", false, fmt.Errorf("put scene: %w", err)
	}
	if !bytes.Equal(storedData, data) {
		return "", false, fmt.Errorf("put scene %s: %w", id, ErrConflict)
	}
	return id, false, nil
}

// GetScene loads and decodes a stored scene.
// Returns an error wrapping ErrNotFound if no scene has the id.
func (s *Store) GetScene(ctx context.Context, id string) (*ir.SceneStructure, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT scene_json FROM scenes WHERE id = ?
	`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scene %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get scene %s: %w", id, err)
	}

	scene, err := ir.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", id, err)
	}
	return scene, nil
}

// ListScenes returns every stored scene in insertion order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListScenes(ctx context.Context) ([]SceneSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, object_count, animation_count, duration, ir_version, created_at
		FROM scenes
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()

	scenes := []SceneSummary{}
	for rows.Next() {
		var sum SceneSummary
		var created string
		if err := rows.Scan(
			&sum.ID, &sum.Title, &sum.Objects, &sum.Animations,
			&sum.Duration, &sum.IRVersion, &created,
		); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("scene %s: %w", sum.ID, err)
		}
		scenes = append(scenes, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenes: %w", err)
	}
	return scenes, nil
}

// ResolveID expands a scene id prefix to the full id.
// Returns ErrNotFound when nothing matches and ErrAmbiguous when more than
// one scene does.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("resolve id: empty prefix: %w", ErrNotFound)
	}
	if strings.ContainsAny(prefix, "%_") {
		return "", fmt.Errorf("resolve id %q: %w", prefix, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM scenes
		WHERE id LIKE ? || '%'
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT 2
	`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id %q: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id %q: %w", prefix, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id %q: %w", prefix, err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve id %q: %w", prefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("resolve id %q: %w", prefix, ErrAmbiguous)
	}
}

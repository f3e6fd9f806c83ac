// Package pipeline sequences document loading, model generation, scene
// compilation and storage.
//
// A Processor is safe for concurrent use as long as its Generator and Store
// are. Each chunk of a document is generated independently and owns its
// scene; results are reassembled in chunk order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/scenegen/internal/compiler"
	"github.com/roach88/scenegen/internal/ir"
	"github.com/roach88/scenegen/internal/llm"
	"github.com/roach88/scenegen/internal/source"
	"github.com/roach88/scenegen/internal/store"
)

// Defaults applied when the corresponding Processor field is zero.
const (
	DefaultWorkers    = 4
	DefaultChunkChars = 4000
)

// Processor turns text into scenes.
type Processor struct {
	Generator  llm.Generator
	Store      *store.Store // optional
	Logger     *slog.Logger
	Workers    int
	ChunkChars int
}

// MultiScene is the result of processing a document: one scene per chunk,
// in chunk order.
type MultiScene struct {
	Title         string               `json:"title"`
	Scenes        []*ir.SceneStructure `json:"-"`
	SceneIDs      []string             `json:"scene_ids"`
	TotalDuration float64              `json:"total_duration"`
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// ProcessText generates one scene from text.
func (p *Processor) ProcessText(ctx context.Context, text string) (*ir.SceneStructure, error) {
	scene, _, err := p.generate(ctx, "text", 0, text)
	return scene, err
}

// ProcessDocument chunks the document text and generates one scene per
// chunk in parallel, bounded by Workers. The first failure cancels the
// remaining chunks. An empty title falls back to the document file name.
func (p *Processor) ProcessDocument(ctx context.Context, doc *source.Document, title string) (*MultiScene, error) {
	if doc == nil {
		return nil, errors.New("process document: nil document")
	}

	chunkChars := p.ChunkChars
	if chunkChars <= 0 {
		chunkChars = DefaultChunkChars
	}
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	chunks := Chunk(doc.Text, chunkChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("process document %s: %w", doc.Path, source.ErrNoText)
	}

	log := p.logger().With("source", doc.Path)
	log.Info("processing document",
		"kind", doc.Kind,
		"pages", doc.Pages,
		"chunks", len(chunks),
		"workers", workers,
	)

	scenes := make([]*ir.SceneStructure, len(chunks))
	ids := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			scene, id, err := p.generate(gctx, doc.Path, i, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			scenes[i] = scene
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process document %s: %w", doc.Path, err)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	}
	ms := &MultiScene{Title: title, Scenes: scenes, SceneIDs: ids}
	for _, s := range scenes {
		ms.TotalDuration += s.Settings.Duration
	}

	log.Info("document processed",
		"scenes", len(scenes),
		"total_duration", ms.TotalDuration,
	)
	return ms, nil
}

// generate runs one model call through the compiler gate and, with a store
// configured, saves the scene and a generation record. The returned id is
// empty without a store.
func (p *Processor) generate(ctx context.Context, src string, idx int, text string) (*ir.SceneStructure, string, error) {
	if p.Generator == nil {
		return nil, "", errors.New("no generator configured")
	}
	log := p.logger().With("source", src, "chunk", idx, "model", p.Generator.Name())

	raw, err := p.Generator.Generate(ctx, text)
	if err != nil {
		log.Error("generation failed", "error", err)
		p.record(ctx, log, &store.Generation{Source: src, ChunkIndex: idx, Model: p.Generator.Name(), Error: err.Error()})
		return nil, "", err
	}

	scene, err := compiler.CompileScene([]byte(raw))
	if err != nil {
		log.Warn("model output rejected", "error", err)
		p.record(ctx, log, &store.Generation{Source: src, ChunkIndex: idx, Model: p.Generator.Name(), Error: err.Error(), RawOutput: raw})
		return nil, "", err
	}
	log.Debug("scene compiled",
		"objects", len(scene.Objects),
		"animations", len(scene.Animations),
	)

	if p.Store == nil {
		return scene, "", nil
	}

	id, inserted, err := p.Store.PutScene(ctx, scene)
	if err != nil {
		return nil, "", err
	}
	p.record(ctx, log, &store.Generation{SceneID: id, Source: src, ChunkIndex: idx, Model: p.Generator.Name(), RawOutput: raw})
	log.Info("scene stored", "scene_id", id, "inserted", inserted)
	return scene, id, nil
}

// record keeps a generation record. Failures are logged, not returned.
func (p *Processor) record(ctx context.Context, log *slog.Logger, g *store.Generation) {
	if p.Store == nil {
		return
	}
	if err := p.Store.RecordGeneration(context.WithoutCancel(ctx), g); err != nil {
		log.Error("recording generation failed", "error", err)
	}
}

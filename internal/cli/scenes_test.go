package cli

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenegen/internal/ir"
	"github.com/roach88/scenegen/internal/store"
	"github.com/roach88/scenegen/internal/testutil"
)

// seedStore writes one scene and one generation record to the configured
// database and returns the scene id.
func seedStore(t *testing.T, opts *RootOptions) string {
	t.Helper()
	st, err := store.Open(opts.Config.DBPath)
	require.NoError(t, err)
	defer st.Close()

	scene := testutil.NewScene("Circles").
		Object("c1", ir.ObjectCircle).
		Animate("a1", ir.AnimCreate, 0, "c1").
		Animate("a2", ir.AnimIndicate, 1, "ghost").
		Build()

	ctx := context.Background()
	id, _, err := st.PutScene(ctx, scene)
	require.NoError(t, err)
	require.NoError(t, st.RecordGeneration(ctx, &store.Generation{
		SceneID: id, Source: "notes.md", Model: "fake",
	}))
	return id
}

func TestScenesListEmpty(t *testing.T) {
	res := execute(testOptions(t), "", "scenes", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "No scenes stored")
}

func TestScenesList(t *testing.T) {
	opts := testOptions(t)
	id := seedStore(t, opts)

	res := execute(opts, "", "scenes", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, id[:12])
	assert.Contains(t, res.out, "Circles")

	res = execute(opts, "", "--format", "json", "scenes", "list")
	require.NoError(t, res.err)
	var resp struct {
		Data []store.SceneSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].ID)
	assert.Equal(t, 2, resp.Data[0].Animations)
}

func TestScenesShow(t *testing.T) {
	opts := testOptions(t)
	id := seedStore(t, opts)

	res := execute(opts, "", "scenes", "show", id[:6])
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "id: "+id)
	assert.Contains(t, res.out, "scene: Circles")
	assert.Contains(t, res.out, "[REFERENTIAL_GAP]")
	assert.Contains(t, res.out, "generations: 1")
	assert.Contains(t, res.out, "notes.md")
}

func TestScenesShowJSON(t *testing.T) {
	opts := testOptions(t)
	id := seedStore(t, opts)

	res := execute(opts, "", "--format", "json", "scenes", "show", id)
	require.NoError(t, res.err)

	var resp struct {
		Data struct {
			ID          string             `json:"id"`
			Scene       json.RawMessage    `json:"scene"`
			Warnings    []map[string]any   `json:"warnings"`
			Generations []store.Generation `json:"generations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.out), &resp))
	assert.Equal(t, id, resp.Data.ID)
	assert.Len(t, resp.Data.Warnings, 1)
	require.Len(t, resp.Data.Generations, 1)

	scene, err := ir.Decode(resp.Data.Scene)
	require.NoError(t, err)
	assert.Equal(t, id, ir.MustSceneID(scene))
}

func TestScenesShowNotFound(t *testing.T) {
	opts := testOptions(t)
	seedStore(t, opts)

	res := execute(opts, "", "scenes", "show", "zzzz")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.out, ErrCodeNotFound)
}

func TestScenesDBFlag(t *testing.T) {
	opts := testOptions(t)
	seedStore(t, opts)

	other := testOptions(t)
	res := execute(other, "", "scenes", "list", "--db", opts.Config.DBPath)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Circles")
}

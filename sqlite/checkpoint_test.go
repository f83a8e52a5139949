package sqlite_test

import (
	"context"
	"testing"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func testSet(t *testing.T, ids ...string) *llmmin.AIUSet {
	t.Helper()

	set := llmmin.NewAIUSet()
	for _, id := range ids {
		set.Put(&llmmin.AIU{
			ID:      id,
			Kind:    llmmin.KindFunction,
			Name:    "fn_" + id,
			Purpose: "does " + id,
			Inputs: []llmmin.Parameter{
				{Name: "x", Type: "int", Description: "value"},
			},
			Source: "pkg#chunk0",
		})
	}
	return set
}

func TestCheckpointService_SaveAndLoad(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a checkpoint", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)
		ctx := context.Background()

		in := &llmmin.Checkpoint{
			DocumentID: "requests",
			ChunkIndex: 2,
			SourceHash: "abc123",
			Set:        testSet(t, "a1", "a2"),
		}
		require.NoError(t, s.Save(ctx, in))

		out, err := s.LoadLatest(ctx, "requests")
		require.NoError(t, err)
		assert.Equal(t, "requests", out.DocumentID)
		assert.Equal(t, 2, out.ChunkIndex)
		assert.Equal(t, "abc123", out.SourceHash)
		require.Equal(t, []string{"a1", "a2"}, out.Set.IDs())
		assert.Equal(t, "fn_a1", out.Set.Get("a1").Name)
		assert.Equal(t, "pkg#chunk0", out.Set.Get("a2").Source)
	})

	t.Run("preserves nil versus empty optional fields", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)
		ctx := context.Background()

		empty := ""
		set := llmmin.NewAIUSet()
		set.Put(&llmmin.AIU{
			ID:   "p1",
			Kind: llmmin.KindParameterSet,
			Name: "opts",
			Inputs: []llmmin.Parameter{
				{Name: "timeout", Type: "float", Default: nil},
				{Name: "verify", Type: "bool", Default: &empty},
			},
		})
		require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
			DocumentID: "doc", ChunkIndex: 0, Set: set,
		}))

		out, err := s.LoadLatest(ctx, "doc")
		require.NoError(t, err)
		inputs := out.Set.Get("p1").Inputs
		require.Len(t, inputs, 2)
		assert.Nil(t, inputs[0].Default)
		require.NotNil(t, inputs[1].Default)
		assert.Equal(t, "", *inputs[1].Default)
	})

	t.Run("save replaces prior checkpoint", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
			DocumentID: "doc", ChunkIndex: 0, SourceHash: "h1",
			Set: testSet(t, "a1"),
		}))
		require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
			DocumentID: "doc", ChunkIndex: 1, SourceHash: "h1",
			Set: testSet(t, "a1", "a2", "a3"),
		}))

		out, err := s.LoadLatest(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, 1, out.ChunkIndex)
		assert.Equal(t, 3, out.Set.Len())
	})

	t.Run("returns ENOTFOUND when no checkpoint exists", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)

		_, err := s.LoadLatest(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, llmmin.ENOTFOUND, llmmin.ErrorCode(err))
	})

	t.Run("rejects checkpoint without document ID", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)

		err := s.Save(context.Background(), &llmmin.Checkpoint{Set: llmmin.NewAIUSet()})
		require.Error(t, err)
		assert.Equal(t, llmmin.EINVALID, llmmin.ErrorCode(err))
	})
}

func TestCheckpointService_Clear(t *testing.T) {
	t.Parallel()

	t.Run("removes the checkpoint", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
			DocumentID: "doc", ChunkIndex: 0, Set: testSet(t, "a1"),
		}))
		require.NoError(t, s.Clear(ctx, "doc"))

		_, err := s.LoadLatest(ctx, "doc")
		assert.Equal(t, llmmin.ENOTFOUND, llmmin.ErrorCode(err))
	})

	t.Run("clearing a missing document is not an error", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		s := sqlite.NewCheckpointService(db)

		require.NoError(t, s.Clear(context.Background(), "missing"))
	})
}

func TestCheckpointService_ListCheckpoints(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := sqlite.NewCheckpointService(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
		DocumentID: "alpha", ChunkIndex: 1, SourceHash: "h1",
		Set: testSet(t, "a1", "a2"),
	}))
	require.NoError(t, s.Save(ctx, &llmmin.Checkpoint{
		DocumentID: "beta", ChunkIndex: 4, SourceHash: "h2",
		Set: testSet(t, "b1"),
	}))

	infos, err := s.ListCheckpoints(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byDoc := map[string]int{}
	for _, info := range infos {
		byDoc[info.DocumentID] = info.Records
		assert.False(t, info.SavedAt.IsZero())
	}
	assert.Equal(t, 2, byDoc["alpha"])
	assert.Equal(t, 1, byDoc["beta"])
}

package store_test

import (
	"context"
	"testing"

	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/repository/memory"
	"github.com/Rrens/prompt-playground/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptStore_SaveUpsertsByName(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore(), testOptions()...)

	first, err := s.Save(ctx, "Reviewer", "v1", "")
	require.NoError(t, err)

	second, err := s.Save(ctx, "Reviewer", "v2", "tightened")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Content)
	assert.Equal(t, "tightened", all[0].Notes)
}

func TestPromptStore_SaveAppendsNewNames(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore(), testOptions()...)

	for _, name := range []string{"b", "a", ""} {
		_, err := s.Save(ctx, name, "content "+name, "")
		require.NoError(t, err)
	}

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].Name)
	assert.Equal(t, "a", all[1].Name)
	assert.Equal(t, "", all[2].Name)
}

func TestPromptStore_Lookups(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore(), testOptions()...)

	saved, err := s.Save(ctx, "Coder", "Write Go.", "")
	require.NoError(t, err)

	byID, err := s.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coder", byID.Name)

	byName, err := s.GetByName(ctx, "Coder")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)

	_, err = s.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetByName(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPromptStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore(), testOptions()...)

	a, _ := s.Save(ctx, "a", "1", "")
	_, _ = s.Save(ctx, "b", "2", "")

	require.NoError(t, s.Delete(ctx, "missing"))
	require.NoError(t, s.Delete(ctx, a.ID))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)
}

func TestPromptStore_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := store.NewPromptStore(memory.NewStore(), testOptions()...)
	_, _ = src.Save(ctx, "a", "1", "")
	_, _ = src.Save(ctx, "b", "2", "note")

	data, err := src.Export(ctx)
	require.NoError(t, err)

	dst := store.NewPromptStore(memory.NewStore(), testOptions()...)
	_, _ = dst.Save(ctx, "replaced", "x", "")

	result, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Count)

	want, _ := src.GetAll(ctx)
	got, err := dst.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPromptStore_ImportPreservesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore(), testOptions()...)

	result, err := s.Import(ctx, []byte(`[{"id":"1","name":"dup","content":"first"},{"id":"2","name":"dup","content":"second"}]`))
	require.NoError(t, err)
	require.True(t, result.Success)

	all, _ := s.GetAll(ctx)
	assert.Len(t, all, 2)

	p, err := s.GetByName(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "first", p.Content)

	_, err = s.Save(ctx, "dup", "updated", "")
	require.NoError(t, err)
	all, _ = s.GetAll(ctx)
	assert.Equal(t, "updated", all[0].Content)
	assert.Equal(t, "second", all[1].Content)
}

func TestPromptStore_ImportRejectsNonArray(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	s := store.NewPromptStore(blobs, testOptions()...)
	_, _ = s.Save(ctx, "keep", "me", "")

	before, _, _ := blobs.Get(ctx, domain.KeyPrompts)

	for _, doc := range []string{`{"name":"x"}`, `null`, `not json`} {
		result, err := s.Import(ctx, []byte(doc))
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 0, result.Count)
		assert.NotEmpty(t, result.Error)
	}

	after, _, _ := blobs.Get(ctx, domain.KeyPrompts)
	assert.Equal(t, before, after)
}

func TestPromptStore_CorruptBlobReadsEmpty(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	require.NoError(t, blobs.Put(ctx, domain.KeyPrompts, []byte("{broken")))

	s := store.NewPromptStore(blobs, testOptions()...)
	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Save(ctx, "fresh", "start", "")
	require.NoError(t, err)
	all, _ = s.GetAll(ctx)
	assert.Len(t, all, 1)
}

func TestPromptStore_BackendErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(failingBlobs{})

	_, err := s.GetAll(ctx)
	assert.ErrorIs(t, err, errBackendDown)

	_, err = s.Save(ctx, "a", "b", "")
	assert.ErrorIs(t, err, errBackendDown)

	result, err := s.Import(ctx, []byte(`[]`))
	assert.ErrorIs(t, err, errBackendDown)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestPromptStore_Draft(t *testing.T) {
	ctx := context.Background()
	s := store.NewPromptStore(memory.NewStore())

	_, ok, err := s.Draft(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveDraft(ctx, "You are terse."))
	content, ok, err := s.Draft(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "You are terse.", content)
}

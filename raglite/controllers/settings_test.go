package controllers

import (
	"context"
	"testing"

	"raglite/raglite/sources/psql/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsGetFallsBackToDefaults(t *testing.T) {
	ctrl := NewSettingsController(dao.NewSettingsDAO(openTestDB(t)))
	settings, err := ctrl.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "global", settings.ID)
	assert.Equal(t, "huggingface", settings.EmbeddingProvider)
	assert.Equal(t, 5, settings.TopK)
}

func TestSettingsUpdatePartialPatch(t *testing.T) {
	ctrl := NewSettingsController(dao.NewSettingsDAO(openTestDB(t)))
	ctx := context.Background()

	provider := "openai"
	topK := 8
	updated, err := ctrl.Update(ctx, SettingsUpdate{
		LLMProvider: &provider,
		TopK:        &topK,
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", updated.LLMProvider)
	assert.Equal(t, 8, updated.TopK)
	// Unsupplied fields keep the defaults.
	assert.Equal(t, "huggingface", updated.EmbeddingProvider)

	// A second read comes from the saved row, not the defaults.
	got, err := ctrl.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "openai", got.LLMProvider)
	assert.Equal(t, 8, got.TopK)
}

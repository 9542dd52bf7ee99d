// raglite/controllers/settings.go
package controllers

import (
	"context"

	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/sources/psql/models"
)

type SettingsController struct {
	dao *dao.SettingsDAO
}

func NewSettingsController(dao *dao.SettingsDAO) *SettingsController {
	return &SettingsController{dao: dao}
}

// Get returns the saved settings row, falling back to defaults when no row
// has been written yet.
func (c *SettingsController) Get(ctx context.Context) (models.Settings, error) {
	settings, err := c.dao.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if settings == nil {
		return models.DefaultSettings(), nil
	}
	return *settings, nil
}

// SettingsUpdate is a partial patch; only non-nil fields overwrite.
type SettingsUpdate struct {
	EmbeddingProvider  *string  `json:"embedding_provider"`
	EmbeddingModelName *string  `json:"embedding_model_name"`
	EmbeddingAPIKey    *string  `json:"embedding_api_key"`
	EmbeddingBaseURL   *string  `json:"embedding_base_url"`
	LLMProvider        *string  `json:"llm_provider"`
	LLMModelName       *string  `json:"llm_model_name"`
	LLMAPIKey          *string  `json:"llm_api_key"`
	LLMBaseURL         *string  `json:"llm_base_url"`
	LLMTemperature     *float64 `json:"llm_temperature"`
	RetrievalMode      *string  `json:"retrieval_mode"`
	VectorThreshold    *float64 `json:"vector_threshold"`
	KeywordThreshold   *float64 `json:"keyword_threshold"`
	VectorWeight       *float64 `json:"vector_weight"`
	TopK               *int     `json:"top_k"`
}

// Update upserts the singleton row, creating it from defaults on first use.
func (c *SettingsController) Update(ctx context.Context, patch SettingsUpdate) (models.Settings, error) {
	var result models.Settings
	err := c.dao.Transaction(ctx, func(tx *dao.SettingsDAO) error {
		settings, err := tx.Get(ctx)
		if err != nil {
			return err
		}
		if settings == nil {
			defaults := models.DefaultSettings()
			settings = &defaults
		}

		if patch.EmbeddingProvider != nil {
			settings.EmbeddingProvider = *patch.EmbeddingProvider
		}
		if patch.EmbeddingModelName != nil {
			settings.EmbeddingModelName = *patch.EmbeddingModelName
		}
		if patch.EmbeddingAPIKey != nil {
			settings.EmbeddingAPIKey = *patch.EmbeddingAPIKey
		}
		if patch.EmbeddingBaseURL != nil {
			settings.EmbeddingBaseURL = *patch.EmbeddingBaseURL
		}
		if patch.LLMProvider != nil {
			settings.LLMProvider = *patch.LLMProvider
		}
		if patch.LLMModelName != nil {
			settings.LLMModelName = *patch.LLMModelName
		}
		if patch.LLMAPIKey != nil {
			settings.LLMAPIKey = *patch.LLMAPIKey
		}
		if patch.LLMBaseURL != nil {
			settings.LLMBaseURL = *patch.LLMBaseURL
		}
		if patch.LLMTemperature != nil {
			settings.LLMTemperature = *patch.LLMTemperature
		}
		if patch.RetrievalMode != nil {
			settings.RetrievalMode = *patch.RetrievalMode
		}
		if patch.VectorThreshold != nil {
			settings.VectorThreshold = *patch.VectorThreshold
		}
		if patch.KeywordThreshold != nil {
			settings.KeywordThreshold = *patch.KeywordThreshold
		}
		if patch.VectorWeight != nil {
			settings.VectorWeight = *patch.VectorWeight
		}
		if patch.TopK != nil {
			settings.TopK = *patch.TopK
		}

		if err := tx.Save(ctx, settings); err != nil {
			return err
		}
		result = *settings
		return nil
	})
	return result, err
}

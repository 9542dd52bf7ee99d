package models

import "time"

// Settings is a singleton row keyed by id "global".
type Settings struct {
	ID                 string    `json:"id" gorm:"type:varchar(32);primaryKey"`
	EmbeddingProvider  string    `json:"embedding_provider" gorm:"type:varchar(64)"`
	EmbeddingModelName string    `json:"embedding_model_name" gorm:"type:varchar(255)"`
	EmbeddingAPIKey    string    `json:"embedding_api_key" gorm:"type:varchar(255)"`
	EmbeddingBaseURL   string    `json:"embedding_base_url" gorm:"type:varchar(255)"`
	LLMProvider        string    `json:"llm_provider" gorm:"type:varchar(64)"`
	LLMModelName       string    `json:"llm_model_name" gorm:"type:varchar(255)"`
	LLMAPIKey          string    `json:"llm_api_key" gorm:"type:varchar(255)"`
	LLMBaseURL         string    `json:"llm_base_url" gorm:"type:varchar(255)"`
	LLMTemperature     float64   `json:"llm_temperature" gorm:"default:0.7"`
	RetrievalMode      string    `json:"retrieval_mode" gorm:"type:varchar(32)"`
	VectorThreshold    float64   `json:"vector_threshold" gorm:"default:0.2"`
	KeywordThreshold   float64   `json:"keyword_threshold" gorm:"default:0"`
	VectorWeight       float64   `json:"vector_weight" gorm:"default:0.7"`
	TopK               int       `json:"top_k" gorm:"default:5"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Settings) TableName() string {
	return "settings"
}

const SettingsID = "global"

// DefaultSettings is returned when no settings row has been saved yet.
func DefaultSettings() Settings {
	return Settings{
		ID:                 SettingsID,
		EmbeddingProvider:  "huggingface",
		EmbeddingModelName: "sentence-transformers/all-MiniLM-L6-v2",
		LLMProvider:        "deepseek",
		LLMModelName:       "deepseek-chat",
		LLMTemperature:     0.7,
		RetrievalMode:      "vector",
		VectorThreshold:    0.2,
		KeywordThreshold:   0.0,
		VectorWeight:       0.7,
		TopK:               5,
	}
}

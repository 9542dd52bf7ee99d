// raglite/sources/psql/models/knowledgebase.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Knowledgebase struct {
	ID           string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       string  `json:"user_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_kb_owner_name"`
	Name         string  `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_kb_owner_name"`
	Description  *string `json:"description,omitempty" gorm:"type:text"`
	ChunkSize    int     `json:"chunk_size" gorm:"not null;default:512"`
	ChunkOverlap int     `json:"chunk_overlap" gorm:"not null;default:50"`
	// Path into the storage backend, not a foreign key. Nil means no cover.
	CoverImage *string   `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Knowledgebase) TableName() string {
	return "knowledgebase"
}

func (kb *Knowledgebase) BeforeCreate(tx *gorm.DB) (err error) {
	if kb.ID == "" {
		kb.ID = uuid.NewString()
	}
	return nil
}

// raglite/controllers/knowledgebase.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"raglite/raglite/config"
	"raglite/raglite/sources/psql/dao"
	"raglite/raglite/sources/psql/models"
	"raglite/raglite/sources/storage"
	"raglite/raglite/utils/apperrors"
	"raglite/raglite/utils/logging"
	"raglite/raglite/utils/pagination"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mimeTypes maps stored cover extensions to response content types.
// Unknown extensions yield "" and the route layer answers 404.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type KnowledgebaseController struct {
	dao     *dao.KnowledgebaseDAO
	storage storage.Storage
	cfg     config.Config
}

func NewKnowledgebaseController(dao *dao.KnowledgebaseDAO, storage storage.Storage, cfg config.Config) *KnowledgebaseController {
	return &KnowledgebaseController{dao: dao, storage: storage, cfg: cfg}
}

// KnowledgebaseUpdate is a partial field patch: only non-nil fields
// overwrite the stored value.
type KnowledgebaseUpdate struct {
	Name         *string
	Description  *string
	ChunkSize    *int
	ChunkOverlap *int
}

// validateCover checks filename and payload against the configured policy
// and returns the lower-cased extension including its dot.
func (c *KnowledgebaseController) validateCover(filename string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" || ext == "." {
		return "", apperrors.Validationf("file has no extension: %s", filename)
	}
	allowed := false
	for _, a := range c.cfg.AllowedImageExtensions {
		if ext == "."+a {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperrors.Validationf("unsupported image format: %s, supported formats are %s",
			strings.TrimPrefix(ext, "."), strings.Join(c.cfg.AllowedImageExtensions, ", "))
	}
	if len(data) == 0 {
		return "", apperrors.Validationf("uploaded image is empty")
	}
	if int64(len(data)) > c.cfg.MaxImageSize {
		return "", apperrors.Validationf("image exceeds the maximum size of %dMB", c.cfg.MaxImageSize/1024/1024)
	}
	return ext, nil
}

func coverPath(id, ext string) string {
	return fmt.Sprintf("covers/%s%s", id, ext)
}

// Create inserts the knowledge base and, when a cover is supplied, uploads
// it at covers/{id}{ext} inside the same transactional scope. A uniqueness
// violation on (user_id, name) comes back as a DuplicateNameError.
func (c *KnowledgebaseController) Create(ctx context.Context, name, userID string, description *string, chunkSize, chunkOverlap int, coverData []byte, coverFilename string) (*models.Knowledgebase, error) {
	var ext string
	if coverFilename != "" {
		var err error
		ext, err = c.validateCover(coverFilename, coverData)
		if err != nil {
			return nil, err
		}
	}

	kb := &models.Knowledgebase{
		Name:         name,
		UserID:       userID,
		Description:  description,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
	err := c.dao.Transaction(ctx, func(tx *dao.KnowledgebaseDAO) error {
		// Create flushes the row, generating the id the cover path needs.
		if err := tx.Create(ctx, kb); err != nil {
			return err
		}
		if ext != "" {
			cover := coverPath(kb.ID, ext)
			logging.AppLogger.Info("uploading cover for new knowledge base",
				zap.String("kb_id", kb.ID),
				zap.String("filename", coverFilename),
				zap.String("path", cover),
			)
			if _, err := c.storage.Upload(ctx, cover, coverData); err != nil {
				return err
			}
			kb.CoverImage = &cover
			if err := tx.Save(ctx, kb); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.DuplicateName("a knowledge base with this name already exists for this owner")
	}
	if err != nil {
		return nil, err
	}
	logging.AppLogger.Info("knowledge base created", zap.String("kb_id", kb.ID), zap.String("name", kb.Name))
	return kb, nil
}

func (c *KnowledgebaseController) GetByID(ctx context.Context, id string) (*models.Knowledgebase, error) {
	return c.dao.GetByID(ctx, id)
}

// Update applies the cover mutation and the field patch in one transaction.
// delete_cover takes precedence over a newly supplied image. Returns
// (nil, nil) when the knowledge base does not exist.
func (c *KnowledgebaseController) Update(ctx context.Context, id string, coverData []byte, coverFilename string, deleteCover bool, patch KnowledgebaseUpdate) (*models.Knowledgebase, error) {
	var ext string
	if !deleteCover && coverFilename != "" {
		var err error
		ext, err = c.validateCover(coverFilename, coverData)
		if err != nil {
			return nil, err
		}
	}

	var kb *models.Knowledgebase
	err := c.dao.Transaction(ctx, func(tx *dao.KnowledgebaseDAO) error {
		var err error
		kb, err = tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if kb == nil {
			return nil
		}

		if deleteCover {
			if kb.CoverImage != nil {
				if err := c.storage.Delete(ctx, *kb.CoverImage); err != nil {
					return err
				}
				logging.AppLogger.Info("cover deleted", zap.String("path", *kb.CoverImage))
				kb.CoverImage = nil
			}
		} else if ext != "" {
			if kb.CoverImage != nil {
				if err := c.storage.Delete(ctx, *kb.CoverImage); err != nil {
					return err
				}
			}
			cover := coverPath(id, ext)
			if _, err := c.storage.Upload(ctx, cover, coverData); err != nil {
				return err
			}
			kb.CoverImage = &cover
		}

		if patch.Name != nil {
			kb.Name = *patch.Name
		}
		if patch.Description != nil {
			kb.Description = patch.Description
		}
		if patch.ChunkSize != nil {
			kb.ChunkSize = *patch.ChunkSize
		}
		if patch.ChunkOverlap != nil {
			kb.ChunkOverlap = *patch.ChunkOverlap
		}
		return tx.Save(ctx, kb)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.DuplicateName("a knowledge base with this name already exists for this owner")
	}
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, nil
	}
	logging.AppLogger.Info("knowledge base updated", zap.String("kb_id", id), zap.String("name", kb.Name))
	return kb, nil
}

// Delete removes the row and reports whether it existed. The cover object,
// if any, is removed from the backend best-effort afterwards; a storage
// failure does not undo the relational delete.
func (c *KnowledgebaseController) Delete(ctx context.Context, id string) (bool, error) {
	kb, err := c.dao.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if kb == nil {
		return false, nil
	}
	found, err := c.dao.Delete(ctx, id)
	if err != nil || !found {
		return found, err
	}
	if kb.CoverImage != nil {
		if err := c.storage.Delete(ctx, *kb.CoverImage); err != nil {
			logging.ErrorLogger.Error("failed to delete cover of removed knowledge base",
				zap.String("kb_id", id),
				zap.String("path", *kb.CoverImage),
				zap.Error(err),
			)
		}
	}
	logging.AppLogger.Info("knowledge base deleted", zap.String("kb_id", id), zap.String("name", kb.Name))
	return true, nil
}

// List returns one page of the owner's knowledge bases. search LIKE-matches
// name or description; sortBy is one of name, updated_at, created_at
// (default); sortOrder is asc or desc (default).
func (c *KnowledgebaseController) List(ctx context.Context, userID string, page, pageSize int, search, sortBy, sortOrder string) (pagination.Page[models.Knowledgebase], error) {
	page, pageSize = pagination.Clamp(page, pageSize, c.cfg.MaxPageSize)
	return c.dao.List(ctx, userID, search, sortBy, sortOrder, page, pageSize)
}

// FetchCover downloads the cover bytes and infers the content type from the
// stored extension. An unknown extension yields an empty content type.
func (c *KnowledgebaseController) FetchCover(ctx context.Context, kb *models.Knowledgebase) ([]byte, string, error) {
	if kb.CoverImage == nil {
		return nil, "", apperrors.NotFound("cover image")
	}
	data, err := c.storage.Download(ctx, *kb.CoverImage)
	if err != nil {
		return nil, "", err
	}
	return data, mimeTypes[strings.ToLower(path.Ext(*kb.CoverImage))], nil
}

// raglite/sources/psql/dao/dao.knowledgebase.go
package dao

import (
	"context"

	"raglite/raglite/sources/psql/models"
	"raglite/raglite/utils/pagination"

	"gorm.io/gorm"
)

type KnowledgebaseDAO struct {
	DB *gorm.DB
}

func NewKnowledgebaseDAO(db *gorm.DB) *KnowledgebaseDAO {
	return &KnowledgebaseDAO{DB: db}
}

// Transaction runs fn inside a single transactional scope, handing it a DAO
// bound to the transaction. Returning an error rolls everything back.
func (dao *KnowledgebaseDAO) Transaction(ctx context.Context, fn func(txDAO *KnowledgebaseDAO) error) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&KnowledgebaseDAO{DB: tx})
	})
}

func (dao *KnowledgebaseDAO) Create(ctx context.Context, kb *models.Knowledgebase) error {
	return dao.DB.WithContext(ctx).Create(kb).Error
}

func (dao *KnowledgebaseDAO) GetByID(ctx context.Context, id string) (*models.Knowledgebase, error) {
	var kb models.Knowledgebase
	err := dao.DB.WithContext(ctx).First(&kb, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// Save writes every field of kb back to its row.
func (dao *KnowledgebaseDAO) Save(ctx context.Context, kb *models.Knowledgebase) error {
	return dao.DB.WithContext(ctx).Save(kb).Error
}

// Delete removes the row and reports whether it existed.
func (dao *KnowledgebaseDAO) Delete(ctx context.Context, id string) (bool, error) {
	res := dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Knowledgebase{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List filters to userID, optionally LIKE-matches search against name or
// description, orders by sortBy/sortOrder and returns one page plus the
// total count. page and pageSize must already be clamped.
func (dao *KnowledgebaseDAO) List(ctx context.Context, userID, search, sortBy, sortOrder string, page, pageSize int) (pagination.Page[models.Knowledgebase], error) {
	query := dao.DB.WithContext(ctx).Model(&models.Knowledgebase{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	sortField := "created_at"
	switch sortBy {
	case "name":
		sortField = "name"
	case "updated_at":
		sortField = "updated_at"
	}
	direction := "desc"
	if sortOrder == "asc" {
		direction = "asc"
	}

	return pagination.Paginate[models.Knowledgebase](query, sortField+" "+direction, page, pageSize)
}

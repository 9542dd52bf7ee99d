package dao

import (
	"context"

	"raglite/raglite/sources/psql/models"

	"gorm.io/gorm"
)

type SettingsDAO struct {
	DB *gorm.DB
}

func NewSettingsDAO(db *gorm.DB) *SettingsDAO {
	return &SettingsDAO{DB: db}
}

// Get returns the singleton settings row, or nil when none has been saved.
func (dao *SettingsDAO) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := dao.DB.WithContext(ctx).Where("id = ?", models.SettingsID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (dao *SettingsDAO) Save(ctx context.Context, settings *models.Settings) error {
	return dao.DB.WithContext(ctx).Save(settings).Error
}

func (dao *SettingsDAO) Transaction(ctx context.Context, fn func(txDAO *SettingsDAO) error) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SettingsDAO{DB: tx})
	})
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyerfyer/pec-qa/internal/models"
	"gorm.io/gorm"
)

// queryRepo 问答记录仓储实现
type queryRepo struct {
	db *gorm.DB // 数据库连接
}

// NewQueryRepository 使用指定的数据库连接创建问答记录仓储
func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepo{db: db}
}

// WithContext 创建带有上下文的仓储
func (r *queryRepo) WithContext(ctx context.Context) QueryRepository {
	return &queryRepo{db: r.db.WithContext(ctx)}
}

// Create 创建问答记录
func (r *queryRepo) Create(record *models.QueryRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create query record: %w", err)
	}
	return nil
}

// GetByID 根据ID获取问答记录
func (r *queryRepo) GetByID(id string) (*models.QueryRecord, error) {
	var record models.QueryRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrQueryRecordNotFound
		}
		return nil, fmt.Errorf("failed to get query record: %w", err)
	}
	return &record, nil
}

// ListRecent 按创建时间倒序列出最近的记录
func (r *queryRepo) ListRecent(limit int) ([]*models.QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []*models.QueryRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list query records: %w", err)
	}
	return records, nil
}

// Count 统计记录总数
func (r *queryRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.QueryRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count query records: %w", err)
	}
	return count, nil
}

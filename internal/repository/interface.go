package repository

import (
	"context"

	"github.com/fyerfyer/pec-qa/internal/models"
)

// QueryRepository 问答记录仓储接口
// 负责问答历史的存储和检索
type QueryRepository interface {
	// Create 创建问答记录
	Create(record *models.QueryRecord) error

	// GetByID 根据ID获取问答记录
	GetByID(id string) (*models.QueryRecord, error)

	// ListRecent 按创建时间倒序列出最近的记录
	ListRecent(limit int) ([]*models.QueryRecord, error)

	// Count 统计记录总数
	Count() (int64, error)

	// WithContext 创建带有上下文的仓储
	WithContext(ctx context.Context) QueryRepository
}

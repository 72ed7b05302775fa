package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/pec-qa/internal/models"
	"github.com/fyerfyer/pec-qa/internal/repository"
)

// 问答记录来源
const (
	SourceWeb = "web"
	SourceAPI = "api"
)

// HistoryService 问答历史服务
type HistoryService struct {
	repo repository.QueryRepository
}

// NewHistoryService 创建问答历史服务
func NewHistoryService(repo repository.QueryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record 保存一次成功的问答
func (s *HistoryService) Record(ctx context.Context, question, source string, result *QueryResult) (*models.QueryRecord, error) {
	record := &models.QueryRecord{
		Question: question,
		Answer:   result.Answer,
		Source:   source,
	}
	if err := record.SetCitations(result.Citations); err != nil {
		return nil, fmt.Errorf("failed to encode citations: %w", err)
	}
	if err := s.repo.WithContext(ctx).Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Recent 列出最近的问答记录
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]*models.QueryRecord, error) {
	return s.repo.WithContext(ctx).ListRecent(limit)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/fyerfyer/pec-qa/internal/database"
	"github.com/fyerfyer/pec-qa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupQueryTestDB(t *testing.T) *gorm.DB {
	// 每个测试使用独立的内存数据库
	dbName := fmt.Sprintf("file:memdb_query_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { database.Close(db) })
	return db
}

// TestQueryRepository_Create 测试创建问答记录
func TestQueryRepository_Create(t *testing.T) {
	repo := NewQueryRepository(setupQueryTestDB(t))

	record := &models.QueryRecord{
		Question: "What is the scope of Article 2.10?",
		Answer:   "Branch circuits.",
		Source:   "api",
	}
	require.NoError(t, record.SetCitations([]map[string]string{
		{"chapter": "2", "article": "2.10", "section_title": "Scope"},
	}))
	require.NoError(t, repo.Create(record))
	assert.NotEmpty(t, record.ID, "ID should be generated")
	assert.False(t, record.CreatedAt.IsZero())

	saved, err := repo.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Question, saved.Question)
	assert.Equal(t, "api", saved.Source)

	var citations []map[string]string
	require.NoError(t, json.Unmarshal(saved.Citations, &citations))
	require.Len(t, citations, 1)
	assert.Equal(t, "2.10", citations[0]["article"])
}

// TestQueryRepository_GetByIDNotFound 测试获取不存在的记录
func TestQueryRepository_GetByIDNotFound(t *testing.T) {
	repo := NewQueryRepository(setupQueryTestDB(t))

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, models.ErrQueryRecordNotFound)
}

// TestQueryRepository_ListRecent 测试按时间倒序列出记录
func TestQueryRepository_ListRecent(t *testing.T) {
	repo := NewQueryRepository(setupQueryTestDB(t)).WithContext(context.Background())

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.QueryRecord{
			Question:  fmt.Sprintf("question %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := repo.ListRecent(3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "question 4", records[0].Question)
	assert.Equal(t, "question 3", records[1].Question)
	assert.Equal(t, "question 2", records[2].Question)

	all, err := repo.ListRecent(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

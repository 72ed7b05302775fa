package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QueryRecord 问答记录模型
// 由HTTP入口在每次成功回答后写入
type QueryRecord struct {
	ID        string         `gorm:"primaryKey" json:"id"`              // 记录ID，主键
	Question  string         `gorm:"type:text;not null" json:"question"` // 用户问题
	Answer    string         `gorm:"type:text" json:"answer"`            // 模型回答
	Citations datatypes.JSON `gorm:"type:json" json:"citations"`         // 引用的条款元数据
	Source    string         `gorm:"size:20" json:"source"`              // 来源：web, api
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`   // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前生成ID和时间
func (r *QueryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (QueryRecord) TableName() string {
	return "query_records"
}

// SetCitations 将引用序列化为JSON
func (r *QueryRecord) SetCitations(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Citations = datatypes.JSON(data)
	return nil
}

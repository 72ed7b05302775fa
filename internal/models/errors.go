package models

import "errors"

var (
	// ErrQueryRecordNotFound 问答记录不存在错误
	ErrQueryRecordNotFound = errors.New("query record not found")
)

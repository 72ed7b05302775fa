package vectordb

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// indexMeta 元数据文件内容
type indexMeta struct {
	Type      string     `json:"type"`
	Dimension int        `json:"dimension"`
	Documents []Document `json:"documents"`
}

// dotProduct 计算两个向量的点积
func dotProduct(v1, v2 []float32) float32 {
	var dot float32
	for i := 0; i < len(v1); i++ {
		dot += v1[i] * v2[i]
	}
	return dot
}

// vectorNorm 计算向量的L2范数
func vectorNorm(v []float32) float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return float32(math.Sqrt(sum))
}

// normalizeVector 归一化向量（使其长度为1）
// 零向量原样复制返回，与任何向量的相似度都为0
func normalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))
	norm := vectorNorm(v)
	if norm == 0 {
		copy(result, v)
		return result
	}
	for i, val := range v {
		result[i] = val / norm
	}
	return result
}

// ValidateVector 验证向量维度
func ValidateVector(vector []float32, expectedDim int) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}
	if expectedDim > 0 && len(vector) != expectedDim {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, expectedDim, len(vector))
	}
	return nil
}

// SortSearchResults 对搜索结果按相似度评分降序排序，分数相同时保持插入顺序
func SortSearchResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// writeJSON 原子地写入JSON文件
func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %v", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readJSON 读取JSON文件
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %v", filepath.Base(path), err)
	}
	return nil
}

// saveMeta 写入元数据文件
func saveMeta(dir string, meta indexMeta) error {
	return writeJSON(filepath.Join(dir, MetaFile), meta)
}

// loadMeta 读取元数据文件并校验类型
func loadMeta(dir, typ string) (indexMeta, error) {
	var meta indexMeta
	if err := readJSON(filepath.Join(dir, MetaFile), &meta); err != nil {
		return meta, err
	}
	if meta.Type != typ {
		return meta, fmt.Errorf("%w: metadata written by %q repository, expected %q", ErrCorruptIndex, meta.Type, typ)
	}
	if meta.Dimension <= 0 {
		return meta, fmt.Errorf("%w: invalid dimension %d", ErrCorruptIndex, meta.Dimension)
	}
	return meta, nil
}

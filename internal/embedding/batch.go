package embedding

import (
	"context"
	"fmt"
)

// BatchProcessor 批处理器
// 将大量文本分批交给嵌入客户端，空文本不发送，直接得到零向量
type BatchProcessor struct {
	client     Client // 嵌入客户端
	batchSize  int    // 每批处理的文本数量
	dimensions int    // 全部为空文本时零向量的维度
}

// NewBatchProcessor 创建新的批处理器
func NewBatchProcessor(client Client, batchSize int, dimensions int) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}

	return &BatchProcessor{
		client:     client,
		batchSize:  batchSize,
		dimensions: dimensions,
	}
}

// Process 处理一批文本，结果与输入一一对应
func (p *BatchProcessor) Process(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	// 记录非空文本的位置
	var pending []string
	var positions []int
	for i, text := range texts {
		if text != "" {
			pending = append(pending, text)
			positions = append(positions, i)
		}
	}

	dim := p.dimensions
	for start := 0; start < len(pending); start += p.batchSize {
		end := start + p.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		vectors, err := p.client.EmbedBatch(ctx, pending[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return nil, NewEmbeddingError(ErrCodeBadResponse,
				fmt.Sprintf("expected %d embeddings, got %d", end-start, len(vectors)))
		}

		for j, vec := range vectors {
			if dim == 0 {
				dim = len(vec)
			} else if len(vec) != dim {
				return nil, NewEmbeddingError(ErrCodeBadResponse,
					fmt.Sprintf("inconsistent embedding dimension: expected %d, got %d", dim, len(vec)))
			}
			results[positions[start+j]] = vec
		}
	}

	if dim == 0 {
		return nil, NewEmbeddingError(ErrCodeEmptyInput, "all texts are empty and no dimension is configured")
	}
	for i := range results {
		if results[i] == nil {
			results[i] = make([]float32, dim)
		}
	}
	return results, nil
}

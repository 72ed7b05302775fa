package embedding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fyerfyer/pec-qa/internal/cache"
	"github.com/sirupsen/logrus"
)

// CachedClient 带缓存的嵌入客户端
// 以模型名和文本为键缓存向量，重建索引时相同文本不再重复请求
type CachedClient struct {
	client Client
	cache  cache.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedClient 创建带缓存的嵌入客户端
func NewCachedClient(client Client, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *CachedClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CachedClient{
		client: client,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Name 返回模型名称
func (c *CachedClient) Name() string {
	return c.client.Name()
}

func (c *CachedClient) key(text string) string {
	return cache.HashKey("embedding", c.client.Name(), text)
}

// lookup 读取缓存，缓存出错只记录日志
func (c *CachedClient) lookup(ctx context.Context, text string) ([]float32, bool) {
	raw, found, err := c.cache.Get(ctx, c.key(text))
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read embedding cache")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		c.logger.WithError(err).Warn("Discarding malformed embedding cache entry")
		return nil, false
	}
	return vec, true
}

func (c *CachedClient) store(ctx context.Context, text string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.key(text), raw, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Failed to write embedding cache")
	}
}

// Embed 生成单条文本的向量，优先使用缓存
func (c *CachedClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.lookup(ctx, text); ok {
		return vec, nil
	}

	vec, err := c.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, text, vec)
	return vec, nil
}

// EmbedBatch 批量生成向量，只请求未命中缓存的文本
func (c *CachedClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missing []string
	var positions []int
	for i, text := range texts {
		if vec, ok := c.lookup(ctx, text); ok {
			results[i] = vec
			continue
		}
		missing = append(missing, text)
		positions = append(positions, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	c.logger.WithFields(logrus.Fields{
		"total":  len(texts),
		"cached": len(texts) - len(missing),
	}).Debug("Embedding cache lookup")

	vectors, err := c.client.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, NewEmbeddingError(ErrCodeBadResponse, "embedding count does not match input count")
	}

	for j, vec := range vectors {
		results[positions[j]] = vec
		c.store(ctx, missing[j], vec)
	}
	return results, nil
}

package main

import (
	"context"
	"fmt"
	"time"

	qaconfig "github.com/fyerfyer/pec-qa/config"
	"github.com/fyerfyer/pec-qa/internal/cache"
	"github.com/fyerfyer/pec-qa/internal/database"
	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/fyerfyer/pec-qa/internal/embedding"
	"github.com/fyerfyer/pec-qa/internal/llm"
	"github.com/fyerfyer/pec-qa/internal/repository"
	"github.com/fyerfyer/pec-qa/internal/retrieval"
	"github.com/fyerfyer/pec-qa/internal/services"
	"github.com/fyerfyer/pec-qa/pkg/storage"
	"gorm.io/gorm"
)

// app 进程内共享的组件
type app struct {
	index   *retrieval.Index
	qa      *services.QAService
	history *services.HistoryService
	db      *gorm.DB
}

// Close 释放索引和数据库连接
func (a *app) Close() {
	if a.index != nil {
		a.index.Close()
	}
	if a.db != nil {
		database.Close(a.db)
	}
}

// setupStorage 创建存放源文档和文本块的存储
func setupStorage(cfg *qaconfig.Config) (storage.Storage, error) {
	return storage.New(storage.Config{
		Type:  cfg.Storage.Type,
		Local: storage.LocalConfig{Path: cfg.Storage.Path},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
		},
	})
}

// setupChunkStore 创建文本块产物的读写器
func setupChunkStore(cfg *qaconfig.Config) (storage.Storage, *document.ChunkStore, error) {
	s, err := setupStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return s, document.NewChunkStore(s, cfg.Source.ChunksKey), nil
}

// setupEmbedding 创建嵌入客户端，启用缓存时包装一层缓存
func setupEmbedding(cfg *qaconfig.Config) (embedding.Client, error) {
	client, err := embedding.NewClient(cfg.Embed.Provider,
		embedding.WithAPIKey(cfg.Embed.APIKey),
		embedding.WithBaseURL(cfg.Embed.Endpoint),
		embedding.WithModel(cfg.Embed.Model),
		embedding.WithTimeout(cfg.Embed.Timeout),
		embedding.WithDimensions(cfg.Embed.Dimensions),
		embedding.WithBatchSize(cfg.Embed.BatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	if !cfg.Cache.Enable {
		return client, nil
	}

	c, err := cache.NewCache(cache.Config{
		Type:            cfg.Cache.Type,
		Prefix:          cfg.Cache.Prefix,
		RedisAddr:       cfg.Cache.Address,
		RedisPassword:   cfg.Cache.Password,
		RedisDB:         cfg.Cache.DB,
		DefaultTTL:      time.Duration(cfg.Cache.TTL) * time.Second,
		CleanupInterval: 10 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return embedding.NewCachedClient(client, c, time.Duration(cfg.Cache.TTL)*time.Second, logger), nil
}

// setupLLM 创建大模型客户端
func setupLLM(cfg *qaconfig.Config) (llm.Client, error) {
	client, err := llm.NewClient(cfg.LLM.Provider,
		llm.WithAPIKey(cfg.LLM.APIKey),
		llm.WithBaseURL(cfg.LLM.Endpoint),
		llm.WithModel(cfg.LLM.Model),
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithTopP(cfg.LLM.TopP),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return client, nil
}

// setupIndex 加载或构建检索索引
func setupIndex(ctx context.Context, cfg *qaconfig.Config, embedder embedding.Client) (*retrieval.Index, error) {
	_, store, err := setupChunkStore(cfg)
	if err != nil {
		return nil, err
	}
	return retrieval.LoadOrBuild(ctx, retrieval.Config{
		Type:      cfg.VectorDB.Type,
		Dir:       cfg.VectorDB.Path,
		Dimension: cfg.VectorDB.Dim,
		BatchSize: cfg.Embed.BatchSize,
		Fallback:  cfg.VectorDB.Fallback,
	}, embedder, store, logger)
}

// setupApp 创建问答所需的全部组件
// withHistory为true时打开问答历史数据库
func setupApp(ctx context.Context, cfg *qaconfig.Config, withHistory bool) (*app, error) {
	embedder, err := setupEmbedding(cfg)
	if err != nil {
		return nil, err
	}

	index, err := setupIndex(ctx, cfg, embedder)
	if err != nil {
		return nil, err
	}
	a := &app{index: index}

	llmClient, err := setupLLM(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	rag := llm.NewRAG(llmClient)
	a.qa = services.NewQAService(index, rag,
		services.WithTopK(cfg.Search.TopK),
		services.WithLogger(logger),
	)

	if withHistory && cfg.Database.Enable {
		db, err := database.Open(&database.Config{
			Type:         cfg.Database.Type,
			DSN:          cfg.Database.DSN,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			MaxLifetime:  time.Hour,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		a.history = services.NewHistoryService(repository.NewQueryRepository(db))
	}

	return a, nil
}

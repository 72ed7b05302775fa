package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults 测试配置文件不存在时使用默认值
func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "faiss", cfg.VectorDB.Type)
	assert.Equal(t, "faiss_index", cfg.VectorDB.Path)
	assert.True(t, cfg.VectorDB.Fallback)
	assert.Equal(t, "pec_chunks_chapter2.json", cfg.Source.ChunksKey)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 60*time.Second, cfg.Embed.Timeout)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.Embed.APIKey)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

// TestLoadFile 测试读取配置文件与环境变量覆盖
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
vectordb:
  type: memory
  path: /tmp/pec_index
llm:
  model: gpt-4o-mini
  api_key: ${PECQA_TEST_LLM_KEY}
  timeout: 30s
search:
  top_k: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PECQA_TEST_LLM_KEY", "sk-from-env")
	t.Setenv("SEARCH_TOP_K", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.VectorDB.Type)
	assert.Equal(t, "/tmp/pec_index", cfg.VectorDB.Path)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 7, cfg.Search.TopK, "environment overrides the file")
}

// TestLoadInvalidFile 测试无法解析的配置文件
func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

// TestValidate 测试配置校验
func TestValidate(t *testing.T) {
	load := func(t *testing.T) *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := load(t)
	cfg.VectorDB.Type = "qdrant"
	assert.Error(t, cfg.Validate())

	cfg = load(t)
	cfg.Search.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = load(t)
	cfg.Storage.Type = "minio"
	cfg.Storage.Endpoint = ""
	assert.Error(t, cfg.Validate())

	cfg = load(t)
	cfg.Cache.Type = "redis"
	cfg.Cache.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = load(t)
	cfg.Cache.Enable = false
	cfg.Cache.Type = "redis"
	cfg.Cache.Address = ""
	assert.NoError(t, cfg.Validate())
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	qaconfig "github.com/fyerfyer/pec-qa/config"
	"github.com/fyerfyer/pec-qa/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig 写入使用本地临时目录的配置文件
func writeTestConfig(t *testing.T) (string, string) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	content := fmt.Sprintf(`
log:
  level: error
storage:
  type: local
  path: %s
vectordb:
  type: memory
  path: %s
database:
  dsn: %s
`, dataDir, filepath.Join(dir, "index"), filepath.Join(dir, "pecqa.db"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path, dataDir
}

// execute 运行命令并返回标准输出
func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		computeJSON = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// TestChunkCommand 测试生成文本块产物
func TestChunkCommand(t *testing.T) {
	configPath, dataDir := writeTestConfig(t)

	structured := `[{"sections":[
		{"section":"2.10.1.1","title":"Scope","text":"This article covers\nbranch circuits."},
		{"section":"2.10.1.2","title":"Definitions","text":"  Branch circuit   rating. "}
	]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "chapter2_structured.json"), []byte(structured), 0644))

	out, err := execute(t, "--config", configPath, "chunk")
	require.NoError(t, err)
	assert.Contains(t, out, "pec_chunks_chapter2.json generated with 2 chunks")

	data, err := os.ReadFile(filepath.Join(dataDir, "pec_chunks_chapter2.json"))
	require.NoError(t, err)

	chunks, err := document.DecodeChunks(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "This article covers branch circuits.", chunks[0].Text)
	assert.Equal(t, "2.10", chunks[1].Metadata.Article)
}

// TestChunkCommandMissingDocument 测试源文档不存在
func TestChunkCommandMissingDocument(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, err := execute(t, "--config", configPath, "chunk")
	assert.Error(t, err)
}

// TestComputeCommand 测试电气计算命令
func TestComputeCommand(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := execute(t, "--config", configPath, "compute", "convert", "1000", "watts", "to", "hp")
	require.NoError(t, err)
	assert.Equal(t, "type: compute_only\n1000.00 Watts = 1.34 HP\n", out)

	out, err = execute(t, "--config", configPath, "compute", "--json", "What is a feeder?")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "none", result["type"])
	assert.Nil(t, result["result"])
}

// TestSetupLLMGenerationSettings 测试配置中的生成参数随请求下发
func TestSetupLLMGenerationSettings(t *testing.T) {
	var got struct {
		MaxTokens   int     `json:"max_tokens"`
		Temperature float32 `json:"temperature"`
		TopP        float32 `json:"top_p"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "ok"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	cfg := &qaconfig.Config{LLM: qaconfig.LLMConfig{
		Provider:    "openai",
		Model:       "gpt-3.5-turbo",
		APIKey:      "test-key",
		Endpoint:    srv.URL,
		MaxTokens:   300,
		Temperature: 0.1,
		TopP:        0.8,
		Timeout:     5 * time.Second,
	}}

	client, err := setupLLM(cfg)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), "What is a feeder?")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.1, got.Temperature, 0.0001)
	assert.InDelta(t, 0.8, got.TopP, 0.0001)
}

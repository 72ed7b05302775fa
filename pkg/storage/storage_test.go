package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 读取对象内容辅助函数
func readAll(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

// TestLocalStorage 测试本地存储实现
func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	localStorage, err := NewLocalStorage(LocalConfig{Path: tempDir})
	require.NoError(t, err)

	key := "data/pec_chunks_chapter2.json"

	t.Run("Put", func(t *testing.T) {
		info, err := localStorage.Put(key, bytes.NewBufferString(`[{"id":"2.0.1.1"}]`))
		require.NoError(t, err)
		assert.Equal(t, key, info.Key)
		assert.Equal(t, int64(18), info.Size)
		assert.Equal(t, "application/json", info.MimeType)

		_, err = os.Stat(filepath.Join(tempDir, "data", "pec_chunks_chapter2.json"))
		assert.NoError(t, err, "object should be written to disk")
	})

	t.Run("Put overwrites", func(t *testing.T) {
		_, err := localStorage.Put(key, bytes.NewBufferString("[]"))
		require.NoError(t, err)

		r, err := localStorage.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "[]", readAll(t, r))
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := localStorage.Get("data/missing.json")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("List", func(t *testing.T) {
		_, err := localStorage.Put("other/file.txt", bytes.NewBufferString("x"))
		require.NoError(t, err)

		files, err := localStorage.List("data/")
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, key, files[0].Key)

		all, err := localStorage.List("")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := localStorage.Exists(key)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = localStorage.Exists("non-existent.json")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, localStorage.Delete(key))

		exists, err := localStorage.Exists(key)
		require.NoError(t, err)
		assert.False(t, exists)

		// 重复删除不报错
		assert.NoError(t, localStorage.Delete(key))
	})
}

// TestCleanKey 测试对象键规范化
func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "data/chunks.json", want: "data/chunks.json"},
		{in: "./data/chunks.json", want: "data/chunks.json"},
		{in: "/data//chunks.json", want: "data/chunks.json"},
		{in: "../../etc/passwd", want: "etc/passwd"},
		{in: `data\chunks.json`, want: "data/chunks.json"},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

// TestStorageFactory 测试存储工厂函数
func TestStorageFactory(t *testing.T) {
	s, err := New(Config{Type: "local", Local: LocalConfig{Path: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(Config{Type: "ftp"})
	assert.Error(t, err)
}

// TestMinioStorage 测试MinIO存储实现
// 需要设置MINIO_ENDPOINT并运行MinIO服务
func TestMinioStorage(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set, skipping MinIO tests")
	}

	minioStorage, err := NewMinioStorage(MinioConfig{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "pecqa-test",
	})
	require.NoError(t, err)

	key := "data/pec_chunks_chapter2.json"
	_, err = minioStorage.Put(key, bytes.NewBufferString("[]"))
	require.NoError(t, err)

	r, err := minioStorage.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "[]", readAll(t, r))

	exists, err := minioStorage.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = minioStorage.Get("data/missing.json")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, minioStorage.Delete(key))
	exists, err = minioStorage.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

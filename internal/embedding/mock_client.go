package embedding

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient 嵌入客户端的testify模拟实现
type MockClient struct {
	mock.Mock
}

// NewMockClient 创建模拟客户端，测试结束时校验期望调用
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Embed 模拟单条嵌入
func (m *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	var vec []float32
	if v := args.Get(0); v != nil {
		vec = v.([]float32)
	}
	return vec, args.Error(1)
}

// EmbedBatch 模拟批量嵌入
func (m *MockClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	var vecs [][]float32
	if v := args.Get(0); v != nil {
		vecs = v.([][]float32)
	}
	return vecs, args.Error(1)
}

// Name 模拟模型名称
func (m *MockClient) Name() string {
	args := m.Called()
	return args.String(0)
}

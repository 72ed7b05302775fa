package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient 大模型客户端的testify模拟实现
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

// Generate 模拟文本生成
func (m *MockClient) Generate(ctx context.Context, prompt string, options ...GenerateOption) (*Response, error) {
	args := m.Called(ctx, prompt, options)
	var resp *Response
	if v := args.Get(0); v != nil {
		resp = v.(*Response)
	}
	return resp, args.Error(1)
}

// Chat 模拟多轮对话
func (m *MockClient) Chat(ctx context.Context, messages []Message, options ...ChatOption) (*Response, error) {
	args := m.Called(ctx, messages, options)
	var resp *Response
	if v := args.Get(0); v != nil {
		resp = v.(*Response)
	}
	return resp, args.Error(1)
}

// Name 模拟模型名称
func (m *MockClient) Name() string {
	args := m.Called()
	return args.String(0)
}

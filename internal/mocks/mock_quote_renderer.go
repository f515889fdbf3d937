package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// MockQuoteRenderer is a mock of ports.QuoteRenderer.
type MockQuoteRenderer struct {
	mock.Mock
}

// MockQuoteRenderer_Expecter builds typed expectations.
type MockQuoteRenderer_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (_m *MockQuoteRenderer) EXPECT() *MockQuoteRenderer_Expecter {
	return &MockQuoteRenderer_Expecter{mock: &_m.Mock}
}

// Render provides a mock function.
func (_m *MockQuoteRenderer) Render(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Render")
	}

	if fn, ok := ret.Get(0).(func(context.Context, ports.RenderRequest) ([]byte, error)); ok {
		return fn(ctx, req)
	}

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// MockQuoteRenderer_Render_Call wraps a Render expectation.
type MockQuoteRenderer_Render_Call struct {
	*mock.Call
}

// Render is a helper method to define mock.On call.
func (_e *MockQuoteRenderer_Expecter) Render(ctx any, req any) *MockQuoteRenderer_Render_Call {
	return &MockQuoteRenderer_Render_Call{Call: _e.mock.On("Render", ctx, req)}
}

func (_c *MockQuoteRenderer_Render_Call) Return(data []byte, err error) *MockQuoteRenderer_Render_Call {
	_c.Call.Return(data, err)

	return _c
}

func (_c *MockQuoteRenderer_Render_Call) RunAndReturn(run func(context.Context, ports.RenderRequest) ([]byte, error)) *MockQuoteRenderer_Render_Call {
	_c.Call.Return(run)

	return _c
}

// ContentType provides a mock function.
func (_m *MockQuoteRenderer) ContentType() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for ContentType")
	}

	return ret.String(0)
}

// MockQuoteRenderer_ContentType_Call wraps a ContentType expectation.
type MockQuoteRenderer_ContentType_Call struct {
	*mock.Call
}

// ContentType is a helper method to define mock.On call.
func (_e *MockQuoteRenderer_Expecter) ContentType() *MockQuoteRenderer_ContentType_Call {
	return &MockQuoteRenderer_ContentType_Call{Call: _e.mock.On("ContentType")}
}

func (_c *MockQuoteRenderer_ContentType_Call) Return(contentType string) *MockQuoteRenderer_ContentType_Call {
	_c.Call.Return(contentType)

	return _c
}

// NewMockQuoteRenderer creates a mock and asserts its expectations at cleanup.
func NewMockQuoteRenderer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteRenderer {
	m := &MockQuoteRenderer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

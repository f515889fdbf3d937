package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// MockQuoteClient is a mock of ports.QuoteClient.
type MockQuoteClient struct {
	mock.Mock
}

// MockQuoteClient_Expecter builds typed expectations.
type MockQuoteClient_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (_m *MockQuoteClient) EXPECT() *MockQuoteClient_Expecter {
	return &MockQuoteClient_Expecter{mock: &_m.Mock}
}

// RandomQuote provides a mock function.
func (_m *MockQuoteClient) RandomQuote(ctx context.Context) (domain.Quote, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for RandomQuote")
	}

	if fn, ok := ret.Get(0).(func(context.Context) (domain.Quote, error)); ok {
		return fn(ctx)
	}

	var r0 domain.Quote
	if fn, ok := ret.Get(0).(func(context.Context) domain.Quote); ok {
		r0 = fn(ctx)
	} else {
		r0 = ret.Get(0).(domain.Quote)
	}

	var r1 error
	if fn, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = fn(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockQuoteClient_RandomQuote_Call wraps a RandomQuote expectation.
type MockQuoteClient_RandomQuote_Call struct {
	*mock.Call
}

// RandomQuote is a helper method to define mock.On call.
func (_e *MockQuoteClient_Expecter) RandomQuote(ctx any) *MockQuoteClient_RandomQuote_Call {
	return &MockQuoteClient_RandomQuote_Call{Call: _e.mock.On("RandomQuote", ctx)}
}

func (_c *MockQuoteClient_RandomQuote_Call) Run(run func(ctx context.Context)) *MockQuoteClient_RandomQuote_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})

	return _c
}

func (_c *MockQuoteClient_RandomQuote_Call) Return(quote domain.Quote, err error) *MockQuoteClient_RandomQuote_Call {
	_c.Call.Return(quote, err)

	return _c
}

func (_c *MockQuoteClient_RandomQuote_Call) RunAndReturn(run func(context.Context) (domain.Quote, error)) *MockQuoteClient_RandomQuote_Call {
	_c.Call.Return(run)

	return _c
}

// SubmitQuote provides a mock function.
func (_m *MockQuoteClient) SubmitQuote(ctx context.Context, draft domain.Draft) error {
	ret := _m.Called(ctx, draft)

	if len(ret) == 0 {
		panic("no return value specified for SubmitQuote")
	}

	if fn, ok := ret.Get(0).(func(context.Context, domain.Draft) error); ok {
		return fn(ctx, draft)
	}

	return ret.Error(0)
}

// MockQuoteClient_SubmitQuote_Call wraps a SubmitQuote expectation.
type MockQuoteClient_SubmitQuote_Call struct {
	*mock.Call
}

// SubmitQuote is a helper method to define mock.On call.
func (_e *MockQuoteClient_Expecter) SubmitQuote(ctx any, draft any) *MockQuoteClient_SubmitQuote_Call {
	return &MockQuoteClient_SubmitQuote_Call{Call: _e.mock.On("SubmitQuote", ctx, draft)}
}

func (_c *MockQuoteClient_SubmitQuote_Call) Run(run func(ctx context.Context, draft domain.Draft)) *MockQuoteClient_SubmitQuote_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Draft))
	})

	return _c
}

func (_c *MockQuoteClient_SubmitQuote_Call) Return(err error) *MockQuoteClient_SubmitQuote_Call {
	_c.Call.Return(err)

	return _c
}

func (_c *MockQuoteClient_SubmitQuote_Call) RunAndReturn(run func(context.Context, domain.Draft) error) *MockQuoteClient_SubmitQuote_Call {
	_c.Call.Return(run)

	return _c
}

// NewMockQuoteClient creates a mock and asserts its expectations at cleanup.
func NewMockQuoteClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteClient {
	m := &MockQuoteClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

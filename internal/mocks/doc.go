// Package mocks holds testify mocks for the ports interfaces, in the shape
// mockery's expecter template produces: NewMockX(t) registers cleanup
// assertions and EXPECT() gives typed call builders.
package mocks

package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var steps []ExecutionStep

	op := Operation[string, int, int, string]{
		Name: "count",
		Validate: func(_ context.Context, in string) error {
			steps = append(steps, StepValidate)

			return nil
		},
		Perform: func(_ context.Context, in string) (int, error) {
			steps = append(steps, StepPerform)

			return len(in), nil
		},
		Verify: func(_ context.Context, _ string, n int) (int, error) {
			steps = append(steps, StepVerify)

			return n * 2, nil
		},
		Archive: func(context.Context, string, int) error {
			steps = append(steps, StepArchive)

			return nil
		},
		Respond: func(_ context.Context, in string, n int) (string, error) {
			steps = append(steps, StepRespond)

			return in + "!", nil
		},
	}

	out, err := Execute(context.Background(), NewExecutor(discardLogger()), op, "abc")

	require.NoError(t, err)
	assert.Equal(t, "abc!", out)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, steps)
}

func TestExecute_StopsAtFailingStep(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		op   Operation[int, int, int, int]
		step ExecutionStep
	}{
		{
			name: "validate",
			op:   Operation[int, int, int, int]{Validate: func(context.Context, int) error { return boom }},
			step: StepValidate,
		},
		{
			name: "perform",
			op:   Operation[int, int, int, int]{Perform: func(context.Context, int) (int, error) { return 0, boom }},
			step: StepPerform,
		},
		{
			name: "verify",
			op:   Operation[int, int, int, int]{Verify: func(context.Context, int, int) (int, error) { return 0, boom }},
			step: StepVerify,
		},
		{
			name: "archive",
			op:   Operation[int, int, int, int]{Archive: func(context.Context, int, int) error { return boom }},
			step: StepArchive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.op.Respond = func(context.Context, int, int) (int, error) {
				t.Fatal("respond must not run after a failure")

				return 0, nil
			}

			_, err := Execute(context.Background(), NewExecutor(discardLogger()), tt.op, 1)

			require.ErrorIs(t, err, boom)
			assert.True(t, IsExecutionError(err))

			step, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, tt.step, step)
		})
	}
}

func TestExecute_PrefersContextLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := logging.WithContext(context.Background(), scoped)

	_, err := Execute(ctx, NewExecutor(discardLogger()), Operation[int, int, int, int]{Name: "noop"}, 0)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "operation=noop")
}

func TestGetExecutionStep_NonExecutionError(t *testing.T) {
	_, ok := GetExecutionStep(errors.New("plain"))

	assert.False(t, ok)
	assert.False(t, IsExecutionError(nil))
}

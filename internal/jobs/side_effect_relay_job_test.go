package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Handle(ctx context.Context, cmd commands.DispatchSideEffectsCommand) (commands.DispatchReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DispatchReport), args.Error(1)
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSideEffectRelayJob_Run_PassesBatchLimits(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDispatchSideEffectsCommand(25, 4)
	require.NoError(t, err)

	d := new(MockDispatcher)
	d.On("Handle", ctx, mock.MatchedBy(func(c commands.DispatchSideEffectsCommand) bool {
		return c.BatchSize() == 25 && c.MaxAttempts() == 4
	})).Return(commands.DispatchReport{Claimed: 1, Dispatched: 1}, nil).Once()

	job := jobs.NewSideEffectRelayJob(d, jobs.RelayConfig{BatchSize: 25, MaxAttempts: 4}, logger())
	job.Run(ctx, cmd)
	d.AssertExpectations(t)
}

func TestSideEffectRelayJob_Run_SurvivesErrors(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDispatchSideEffectsCommand(10, 3)
	require.NoError(t, err)

	d := new(MockDispatcher)
	d.On("Handle", ctx, mock.Anything).Return(commands.DispatchReport{}, errors.New("db down")).Once()

	job := jobs.NewSideEffectRelayJob(d, jobs.RelayConfig{BatchSize: 10, MaxAttempts: 3}, logger())
	assert.NotPanics(t, func() { job.Run(ctx, cmd) })
	d.AssertExpectations(t)
}

func TestSideEffectRelayJob_Start_RejectsBadConfig(t *testing.T) {
	job := jobs.NewSideEffectRelayJob(new(MockDispatcher), jobs.RelayConfig{}, logger())
	require.Error(t, job.Start())
}

func TestJobManager_StartStop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := new(MockDispatcher)
	d.On("Handle", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	}).Return(commands.DispatchReport{}, nil)

	jm := jobs.NewJobManager(d, jobs.RelayConfig{BatchSize: 10, MaxAttempts: 3}, logger())
	require.NoError(t, jm.StartAll())
	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("relay did not run")
	}
	jm.StopAll()
}

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompleteArrived(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestCompletionWorker_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("logs completed count", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		completer := &MockCompleter{}
		completer.On("CompleteArrived", mock.Anything, now).Return(2, nil)

		w := NewCompletionWorker(completer, time.Minute, logger)
		w.now = func() time.Time { return now }
		w.sweep(context.Background())

		completer.AssertExpectations(t)
		assert.Equal(t, "bookings completed", hook.LastEntry().Message)
		assert.Equal(t, 2, hook.LastEntry().Data["completed"])
	})

	t.Run("nothing to complete is quiet", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		completer := &MockCompleter{}
		completer.On("CompleteArrived", mock.Anything, now).Return(0, nil)

		w := NewCompletionWorker(completer, time.Minute, logger)
		w.now = func() time.Time { return now }
		w.sweep(context.Background())

		assert.Empty(t, hook.AllEntries())
	})

	t.Run("error is logged", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		completer := &MockCompleter{}
		completer.On("CompleteArrived", mock.Anything, now).Return(0, errors.New("db down"))

		w := NewCompletionWorker(completer, time.Minute, logger)
		w.now = func() time.Time { return now }
		w.sweep(context.Background())

		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})
}

func TestCompletionWorker_StartStops(t *testing.T) {
	logger, hook := test.NewNullLogger()
	completer := &MockCompleter{}
	called := make(chan struct{}, 1)
	completer.On("CompleteArrived", mock.Anything, mock.Anything).Return(0, nil).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewCompletionWorker(completer, time.Hour, logger).Start(ctx)
		close(done)
	}()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("initial sweep did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, "completion worker stopped", hook.LastEntry().Message)
}

func TestNewCompletionWorker_DefaultInterval(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := NewCompletionWorker(&MockCompleter{}, 0, logger)
	assert.Equal(t, 10*time.Minute, w.interval)
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCompleter) CompletePast(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 2, f.err
}

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRecorder struct {
	runs []bool
}

func (r *fakeRecorder) RecordJobRun(_ string, success bool) {
	r.runs = append(r.runs, success)
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := New("every now and then", time.UTC, &fakeCompleter{}, logger, nil)
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	completer := &fakeCompleter{}
	recorder := &fakeRecorder{}

	s, err := New("@hourly", time.UTC, completer, logger, recorder)
	require.NoError(t, err)

	s.RunOnce(context.Background())
	completer.err = errors.New("db down")
	s.RunOnce(context.Background())

	assert.Equal(t, 2, completer.Calls())
	assert.Equal(t, []bool{true, false}, recorder.runs)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "scheduled job failed", hook.LastEntry().Message)
}

func TestStartRunsImmediately(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	completer := &fakeCompleter{}

	s, err := New("@daily", time.UTC, completer, logger, nil)
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return completer.Calls() == 1 }, time.Second, 10*time.Millisecond)
}

package task

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	h := s.Create()
	require.NotEmpty(t, h.ID())

	got, err := s.Get(h.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, got.Status)
	assert.Equal(t, 0, got.Progress)

	h.SetStatus(StatusParsing)
	h.SetProgress(10)
	got, err = s.Get(h.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusParsing, got.Status)
	assert.Equal(t, 10, got.Progress)

	h.Complete(map[string]int{"variants": 3})
	got, err = s.Get(h.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, map[string]int{"variants": 3}, got.Result)
}

func TestStoreFail(t *testing.T) {
	s := NewStore()
	h := s.Create()
	h.SetProgress(50)
	h.Fail("annotator exited with status 2")

	got, err := s.Get(h.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "annotator exited with status 2", got.Error)
	assert.Nil(t, got.Result)
}

func TestStoreGetUnknown(t *testing.T) {
	s := NewStore()
	_, err := s.Get("no-such-id")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreConcurrentUpdates(t *testing.T) {
	s := NewStore()
	h := s.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			h.SetProgress(p)
			_, _ = s.Get(h.ID())
		}(i)
	}
	wg.Wait()

	got, err := s.Get(h.ID())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Progress, 0)
	assert.Less(t, got.Progress, 50)
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_Put(t *testing.T) {
	store := NewStubObjectStorage()

	url, err := store.Put(context.Background(), "exports/org-1/report.csv", "text/csv;charset=utf-8", []byte("Category,Spend\nJan,1"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/exports/org-1/report.csv", url)

	body, ok := store.Get("exports/org-1/report.csv")
	require.True(t, ok)
	assert.Equal(t, []byte("Category,Spend\nJan,1"), body)
}

func TestStubObjectStorage_Put_EmptyKey(t *testing.T) {
	store := NewStubObjectStorage()

	_, err := store.Put(context.Background(), "", "text/csv", nil)
	assert.Error(t, err)
}

func TestStubObjectStorage_Delete(t *testing.T) {
	store := NewStubObjectStorage()

	_, err := store.Put(context.Background(), "exports/org-1/report.png", "image/png", []byte{0x89})
	require.NoError(t, err)
	require.Equal(t, 1, store.Count())

	err = store.Delete(context.Background(), "exports/org-1/report.png")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())

	_, ok := store.Get("exports/org-1/report.png")
	assert.False(t, ok)
}

func TestStubObjectStorage_CustomBaseURL(t *testing.T) {
	store := NewStubObjectStorage()
	store.BaseURL = "https://cdn.internal"

	url, err := store.Put(context.Background(), "exports/org-2/report.csv", "text/csv;charset=utf-8", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.internal/exports/org-2/report.csv", url)
}

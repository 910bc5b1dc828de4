package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutDeleteList(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "processes/p1/requirements/r1/rg.pdf", strings.NewReader("conteudo"), 8, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/processes/p1/requirements/r1/rg.pdf", url)

	_, err = store.Put(ctx, "processes/p1/geral/nota.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	_, err = store.Put(ctx, "processes/p2/geral/outro.txt", strings.NewReader("y"), 1, "text/plain")
	require.NoError(t, err)

	keys, err := store.ListByPrefix(ctx, "processes/p1")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "processes/p1/"), k)
	}

	require.NoError(t, store.Delete(ctx, "processes/p1/geral/nota.txt"))
	keys, err = store.ListByPrefix(ctx, "processes/p1")
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	// deleting twice is a no-op, not an error
	assert.NoError(t, store.Delete(ctx, "processes/p1/geral/nota.txt"))
}

func TestLocalStoreListMissingPrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	keys, err := store.ListByPrefix(context.Background(), "processes/nao-existe")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLocalStoreRejectsEmptyKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "", strings.NewReader(""), 0, "")
	assert.Error(t, err)
}

package tablestore

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := Open(StoreConfig{Path: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRejectsMissingPath(t *testing.T) {
	_, err := Open(StoreConfig{Path: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(StoreConfig{})
	assert.Error(t, err)
}

func TestPutGet(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put([]byte("end1"), []byte("start1")))

	start, ok, err := store.Get([]byte("end1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("start1"), start)

	_, ok, err = store.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put([]byte("end"), []byte("old")))
	require.NoError(t, store.Put([]byte("end"), []byte("new")))

	start, ok, err := store.Get([]byte("end"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), start)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteBatchAndEach(t *testing.T) {
	store := openTestStore(t)

	batch := [][2][]byte{
		{[]byte("e1"), []byte("s1")},
		{[]byte("e2"), []byte("s2")},
		{[]byte("e3"), []byte("s3")},
	}
	require.NoError(t, store.WriteBatch(batch))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got := make(map[string]string)
	require.NoError(t, store.Each(func(end, start []byte) error {
		got[string(end)] = string(start)
		return nil
	}))
	assert.Equal(t, map[string]string{"e1": "s1", "e2": "s2", "e3": "s3"}, got)
}

func TestReset(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put([]byte("end"), []byte("start")))
	require.NoError(t, store.Reset())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestClosedStoreErrors(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Put([]byte("e"), []byte("s")), ErrClosed)
	_, _, err := store.Get([]byte("e"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.Count()
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice is fine.
	assert.NoError(t, store.Close())
}

func TestStoresLogToTheirOwnLogger(t *testing.T) {
	var out1, out2 bytes.Buffer
	logger1 := logrus.New()
	logger1.SetOutput(&out1)
	logger2 := logrus.New()
	logger2.SetOutput(&out2)

	store1, err := Open(StoreConfig{Path: t.TempDir(), Logger: logger1})
	require.NoError(t, err)
	defer store1.Close()

	store2, err := Open(StoreConfig{Path: t.TempDir(), Logger: logger2})
	require.NoError(t, err)
	defer store2.Close()

	out1.Reset()
	out2.Reset()

	// Opening store2 must not have redirected store1's diagnostics.
	require.NoError(t, store1.Reset())
	assert.Contains(t, out1.String(), "chain store reset")
	assert.NotContains(t, out2.String(), "chain store reset")
}

func TestReopenKeepsContents(t *testing.T) {
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := Open(StoreConfig{Path: dir, Logger: logger})
	require.NoError(t, err)
	require.NoError(t, store.Put([]byte("end"), []byte("start")))
	require.NoError(t, store.Close())

	reopened, err := Open(StoreConfig{Path: dir, Logger: logger})
	require.NoError(t, err)
	defer reopened.Close()

	start, ok, err := reopened.Get([]byte("end"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("start"), start)
}

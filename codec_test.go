package rainbowdb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableContents(t *testing.T, tbl *Table) map[string]string {
	t.Helper()
	got := make(map[string]string)
	require.NoError(t, tbl.index.each(func(end, start []byte) error {
		got[string(end)] = string(start)
		return nil
	}))
	return got
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, salted := range []bool{false, true} {
		conf := testConfig()
		conf.PositionSalted = salted

		tbl, err := New(conf)
		require.NoError(t, err)
		require.NoError(t, tbl.Build([][]byte{[]byte("a"), []byte("b"), []byte("c")}))

		var buf bytes.Buffer
		require.NoError(t, tbl.Save(&buf))

		loadConf := Config{Hash: sha1Hash, Logger: quietLogger()}
		loaded, err := Load(&buf, loadConf)
		require.NoError(t, err)

		assert.Equal(t, tbl.Len(), loaded.Len())
		assert.Equal(t, salted, loaded.PositionSalted())
		assert.Equal(t, tbl.ChainLen(), loaded.ChainLen())
		assert.Equal(t, tableContents(t, tbl), tableContents(t, loaded))

		tbl.Close()
		loaded.Close()
	}
}

func TestLoadedTableAnswersLookups(t *testing.T) {
	tbl, digests := plantedDigests(t, testConfig(), [][]byte{[]byte("a"), []byte("b")})
	defer tbl.Close()
	require.NotEmpty(t, digests)

	var buf bytes.Buffer
	require.NoError(t, tbl.Save(&buf))

	loaded, err := Load(&buf, Config{Hash: sha1Hash, Logger: quietLogger()})
	require.NoError(t, err)
	defer loaded.Close()

	for _, target := range digests {
		plaintext, found, err := loaded.Lookup(target)
		require.NoError(t, err)
		require.True(t, found, "target=%x", target)
		assert.Equal(t, target, sha1Hash(plaintext))
	}
}

func TestLoadReplacesExistingStoreContents(t *testing.T) {
	tbl, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, tbl.Build([][]byte{[]byte("a")}))

	var buf bytes.Buffer
	require.NoError(t, tbl.Save(&buf))
	want := tableContents(t, tbl)
	tbl.Close()

	// Loading into a persistent store directory that already holds chains
	// must leave exactly the saved set behind.
	dir := t.TempDir()
	storeConf := testConfig()
	storeConf.StorePath = dir
	storeConf.StoreLogger = quietStoreLogger()

	pre, err := New(storeConf)
	require.NoError(t, err)
	require.NoError(t, pre.Build([][]byte{[]byte("x"), []byte("y")}))
	require.NoError(t, pre.Close())

	loadConf := Config{
		Hash:        sha1Hash,
		Logger:      quietLogger(),
		StorePath:   dir,
		StoreLogger: quietStoreLogger(),
	}
	loaded, err := Load(&buf, loadConf)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, want, tableContents(t, loaded))
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("NOPE----")), Config{Hash: sha1Hash, Logger: quietLogger()})
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestLoadRejectsTruncatedStream(t *testing.T) {
	tbl, err := New(testConfig())
	require.NoError(t, err)
	defer tbl.Close()
	require.NoError(t, tbl.Build([][]byte{[]byte("a"), []byte("b")}))

	var buf bytes.Buffer
	require.NoError(t, tbl.Save(&buf))

	full := buf.Bytes()
	for _, n := range []int{0, 2, len(full) / 2, len(full) - 1} {
		_, err := Load(bytes.NewReader(full[:n]), Config{Hash: sha1Hash, Logger: quietLogger()})
		assert.ErrorIs(t, err, ErrMalformedTable, "prefix length %d", n)
	}
}

func TestLoadRejectsGarbageAfterMagic(t *testing.T) {
	stream := append(append([]byte{}, tableMagic[:]...), []byte("this is not lzma data at all")...)
	_, err := Load(bytes.NewReader(stream), Config{Hash: sha1Hash, Logger: quietLogger()})
	assert.ErrorIs(t, err, ErrMalformedTable)
}

package rainbowdb

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// ErrMalformedTable is returned by Load for streams that are not a table:
// wrong magic, truncated data, or records that contradict the header. A
// failed Load never returns a partially filled table.
var ErrMalformedTable = errors.New("rainbowdb: malformed table stream")

// tableMagic precedes the compressed payload so foreign files fail fast.
var tableMagic = [4]byte{'R', 'B', 'T', '1'}

// tableHeader carries the table's identity. Load rebuilds the plaintext
// space and reduction strategy from it, so a saved table can be reopened
// without repeating the build-time configuration.
type tableHeader struct {
	Alphabet       []byte
	MaxLen         int
	ChainLen       int
	PositionSalted bool
	Count          int
}

// tableRecord is one persisted chain. Records are written in index
// iteration order, which is deliberately unspecified: the persisted form
// is a set of pairs, not a sequence.
type tableRecord struct {
	End   []byte
	Start []byte
}

// Save writes the table to w as a magic header followed by an
// LZMA-compressed gob stream of the header and one record per chain.
func (t *Table) Save(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, err := w.Write(tableMagic[:]); err != nil {
		return fmt.Errorf("write table magic: %w", err)
	}

	lz, err := lzma.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open lzma stream: %w", err)
	}

	enc := gob.NewEncoder(lz)
	header := tableHeader{
		Alphabet:       t.space.Alphabet(),
		MaxLen:         t.space.MaxLen(),
		ChainLen:       t.config.ChainLen,
		PositionSalted: t.reducer.PositionAware(),
		Count:          t.lenLocked(),
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("encode table header: %w", err)
	}

	if err := t.index.each(func(end, start []byte) error {
		return enc.Encode(tableRecord{End: end, Start: start})
	}); err != nil {
		return fmt.Errorf("encode chains: %w", err)
	}

	if err := lz.Close(); err != nil {
		return fmt.Errorf("close lzma stream: %w", err)
	}

	t.log.Info("rainbow table saved", "chains", header.Count)
	return nil
}

// Load reads a table previously written by Save. The stream supplies the
// alphabet, maximum length, chain length and reduction mode; conf supplies
// everything else (hash function, logger, workers, optional store path).
// Any decoding failure surfaces as an error wrapping ErrMalformedTable and
// leaves no table behind.
func Load(r io.Reader, conf Config) (*Table, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrMalformedTable, err)
	}
	if magic != tableMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrMalformedTable, magic[:])
	}

	lz, err := lzma.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening lzma stream: %v", ErrMalformedTable, err)
	}

	dec := gob.NewDecoder(lz)
	var header tableHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("%w: decoding header: %v", ErrMalformedTable, err)
	}
	if header.Count < 0 {
		return nil, fmt.Errorf("%w: negative chain count %d", ErrMalformedTable, header.Count)
	}

	conf.Alphabet = header.Alphabet
	conf.MaxLen = header.MaxLen
	conf.ChainLen = header.ChainLen
	conf.PositionSalted = header.PositionSalted

	t, err := New(conf)
	if err != nil {
		return nil, fmt.Errorf("configure loaded table: %w", err)
	}

	batch := make([][2][]byte, 0, header.Count)
	for i := 0; i < header.Count; i++ {
		var rec tableRecord
		if err := dec.Decode(&rec); err != nil {
			t.Close()
			return nil, fmt.Errorf("%w: decoding chain %d of %d: %v", ErrMalformedTable, i, header.Count, err)
		}
		batch = append(batch, [2][]byte{rec.End, rec.Start})
	}

	t.mu.Lock()
	err = t.index.reset()
	if err == nil {
		err = t.index.putBatch(batch)
	}
	t.mu.Unlock()
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("insert loaded chains: %w", err)
	}

	t.log.Info("rainbow table loaded", "chains", header.Count)
	return t, nil
}

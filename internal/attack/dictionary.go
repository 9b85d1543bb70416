package attack

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Dictionary scans a wordlist (one candidate per line, blank lines
// skipped) and returns the first word whose (optionally salted) hash
// equals target. A miss returns (nil, false, nil) once the list is
// exhausted.
func Dictionary(ctx context.Context, wordlist io.Reader, hash func([]byte) []byte, target, salt []byte) ([]byte, bool, error) {
	scanner := bufio.NewScanner(wordlist)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
		}

		word := bytes.TrimSpace(scanner.Bytes())
		if len(word) == 0 {
			continue
		}

		data := word
		if len(salt) > 0 {
			data = append(append(make([]byte, 0, len(salt)+len(word)), salt...), word...)
		}
		if bytes.Equal(hash(data), target) {
			return append([]byte(nil), word...), true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("read wordlist at line %d: %w", line, err)
	}

	return nil, false, nil
}

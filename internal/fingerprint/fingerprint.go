// Package fingerprint computes xxh3 content digests of pipeline artifacts.
// Digests are used for progress logging and for verifying that re-running an
// already-completed task leaves its output byte-identical; they play no part
// in the idempotence check itself, which is existence-based.
package fingerprint

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// readBufSize is the chunk size used when digesting files.
const readBufSize = 64 * 1024

// Sum returns the xxh3 digest of b.
func Sum(b []byte) uint64 { return xxh3.Hash(b) }

// File returns the xxh3 digest of the file's contents, streamed in fixed
// chunks so large artifacts are never buffered whole.
func File(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	buf := make([]byte, readBufSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n]) // xxh3 Write never fails
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return 0, fmt.Errorf("fingerprint %s: %w", path, rerr)
		}
	}
	return h.Sum64(), nil
}

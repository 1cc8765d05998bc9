package lotpack

import (
	"errors"
	"fmt"

	"github.com/brindlerow/pzmap/internal/coord"
)

// ErrShortRead covers truncated reads, malformed integers, and
// out-of-range seeks encountered while decoding a chunk body.
var ErrShortRead = errors.New("lotpack: short read")

// DecodeError wraps a chunk-body decode failure with the chunk it happened
// in, per the spec's requirement that a lot-pack failure carry the
// offending chunk coordinate.
type DecodeError struct {
	Chunk coord.ChunkCoord
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("lotpack: chunk %v: %v", e.Chunk, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

package policy

import (
	"fmt"

	"golift.io/rotastream"
)

// Size rotates the file once it grows past Max bytes.
// At controls whether the check happens before or after each write.
type Size struct {
	Max int64
	At  rotastream.Evaluation
}

// MaxSize returns a size policy. With rotastream.AfterWrite, the write that
// crosses maxBytes is the last one in the archive. With rotastream.BeforeWrite,
// that write starts the new file instead.
func MaxSize(maxBytes int64, at rotastream.Evaluation) *Size {
	return &Size{Max: maxBytes, At: at}
}

// ShouldRotate satisfies the rotastream.SizePolicy interface.
func (s *Size) ShouldRotate(at rotastream.Evaluation, written, incoming int64) bool {
	return s.Max > 0 && at == s.At && written+incoming > s.Max
}

func (s *Size) String() string {
	return fmt.Sprintf("size>%d (%v)", s.Max, s.At)
}

// Our interface must satify a rotastream.SizePolicy.
var _ rotastream.SizePolicy = (*Size)(nil)

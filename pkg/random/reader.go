package random

import (
	"io"
)

type reader struct {
	src Source
}

// NewReader provides an endless byte stream drawn from the given source.
// Every byte consumes one draw.
func NewReader(src Source) io.Reader {
	return &reader{src: src}
}

func (r *reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Index(256))
	}
	return len(p), nil
}

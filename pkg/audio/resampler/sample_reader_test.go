package resampler

import (
	"bytes"
	"io"
	"testing"
)

// chunkedReader returns data in fixed-size pieces to exercise partial reads.
type chunkedReader struct {
	data  []byte
	chunk int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	n = copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestSampleReaderAligns(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	sr := newSampleReader(&chunkedReader{data: data, chunk: 3}, 4)

	var out []byte
	buf := make([]byte, 8)
	for {
		n, err := sr.Read(buf)
		if n%4 != 0 {
			t.Fatalf("read %d bytes, want multiple of 4", n)
		}
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(out, data) {
		t.Errorf("output %v, want %v", out, data)
	}
}

func TestSampleReaderShortBuffer(t *testing.T) {
	sr := newSampleReader(bytes.NewReader([]byte{1, 2, 3, 4}), 4)
	if _, err := sr.Read(make([]byte, 3)); err != io.ErrShortBuffer {
		t.Errorf("err = %v, want io.ErrShortBuffer", err)
	}
}

func TestSampleReaderUnalignedEOF(t *testing.T) {
	sr := newSampleReader(bytes.NewReader([]byte{1, 2, 3}), 4)
	buf := make([]byte, 8)
	if _, err := sr.Read(buf); err != io.ErrUnexpectedEOF {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

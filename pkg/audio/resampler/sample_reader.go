package resampler

import "io"

// sampleReader aligns reads from an underlying PCM byte stream to whole
// samples. An unaligned tail from one read is held back and prepended to
// the next, so consumers always see a multiple of sampleSize bytes.
type sampleReader struct {
	r          io.Reader
	sampleSize int

	// tail holds the unaligned remainder of the previous read,
	// at most sampleSize-1 bytes.
	tail []byte
}

func newSampleReader(r io.Reader, sampleSize int) *sampleReader {
	return &sampleReader{
		r:          r,
		sampleSize: sampleSize,
		tail:       make([]byte, 0, sampleSize-1),
	}
}

// Read fills p with a multiple of sampleSize bytes (possibly zero). It
// returns io.ErrShortBuffer when p cannot hold a single sample, and
// io.ErrUnexpectedEOF when the stream ends mid-sample.
func (sr *sampleReader) Read(p []byte) (int, error) {
	if len(p) < sr.sampleSize {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/sr.sampleSize*sr.sampleSize]

	n := copy(p, sr.tail)
	sr.tail = sr.tail[:0]

	rn, err := sr.r.Read(p[n:])
	n += rn

	rem := n % sr.sampleSize
	if err != nil {
		if rem != 0 && err == io.EOF {
			return n, io.ErrUnexpectedEOF
		}
		return n, err
	}
	if rem != 0 {
		n -= rem
		sr.tail = append(sr.tail, p[n:n+rem]...)
	}
	return n, nil
}

package audio

import "sync/atomic"

// byteRing is a lock-free spsc byte queue between the beat goroutine and a
// device callback. push refuses a buffer that does not fit whole, so the
// stream can never resume mid-frame after an overflow.
type byteRing struct {
	buf         []byte
	read, write *uint32
}

func newByteRing(size int) *byteRing {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring size must be a power of 2")
	}
	return &byteRing{
		buf:   make([]byte, size),
		read:  new(uint32),
		write: new(uint32),
	}
}

func (r *byteRing) push(p []byte) bool {
	read := atomic.LoadUint32(r.read)
	write := atomic.LoadUint32(r.write)
	if len(p) > len(r.buf)-int(write-read) {
		return false
	}
	for i, b := range p {
		r.buf[(write+uint32(i))%uint32(len(r.buf))] = b
	}
	atomic.StoreUint32(r.write, write+uint32(len(p)))
	return true
}

func (r *byteRing) pop(p []byte) int {
	read := atomic.LoadUint32(r.read)
	write := atomic.LoadUint32(r.write)
	n := int(write - read)
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i] = r.buf[(read+uint32(i))%uint32(len(r.buf))]
	}
	atomic.StoreUint32(r.read, read+uint32(n))
	return n
}

func (r *byteRing) buffered() int {
	return int(atomic.LoadUint32(r.write) - atomic.LoadUint32(r.read))
}

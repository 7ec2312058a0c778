package logic

// BufferCap is the fixed capacity of the sample ring. The configured validity
// window never exceeds it.
const BufferCap = 10

// SampleBuffer is a fixed-capacity ring of recent quantized samples, written
// in round-robin order. Not safe for concurrent use; the run loop is the
// only writer.
type SampleBuffer struct {
	buf  [BufferCap]int
	head int // next write position
	n    int
}

// Push appends a sample, overwriting the oldest once full.
func (b *SampleBuffer) Push(s int) {
	b.buf[b.head] = s
	b.head = (b.head + 1) % BufferCap
	if b.n < BufferCap {
		b.n++
	}
}

// ValidCount returns how many of the most recent min(window, stored) samples
// are >= threshold. The comparison is inclusive: a sample exactly at the
// threshold counts as valid.
func (b *SampleBuffer) ValidCount(window, threshold int) int {
	if window > b.n {
		window = b.n
	}
	count := 0
	for i := 1; i <= window; i++ {
		if b.buf[(b.head-i+BufferCap)%BufferCap] >= threshold {
			count++
		}
	}
	return count
}

// Len returns the number of stored samples.
func (b *SampleBuffer) Len() int {
	return b.n
}

// Latest returns the most recent sample, or 0 when nothing has been pushed.
func (b *SampleBuffer) Latest() int {
	if b.n == 0 {
		return 0
	}
	return b.buf[(b.head-1+BufferCap)%BufferCap]
}

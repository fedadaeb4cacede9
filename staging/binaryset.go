package staging

// Blob is one named byte buffer produced by an index build. The Stager
// borrows the buffer for the duration of a stage call and retains no
// reference afterwards.
type Blob struct {
	Name string
	Data []byte
}

// Size returns the buffer size in bytes.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// BinarySet is an ordered collection of named blobs, the output surface of
// an index build. Iteration order is insertion order.
type BinarySet struct {
	blobs []Blob
}

// Append adds a named buffer to the set.
func (s *BinarySet) Append(name string, data []byte) {
	s.blobs = append(s.blobs, Blob{Name: name, Data: data})
}

// Blobs returns the blobs in insertion order. The slice is shared; callers
// must not mutate it.
func (s *BinarySet) Blobs() []Blob {
	return s.blobs
}

// Len returns the number of blobs in the set.
func (s *BinarySet) Len() int {
	return len(s.blobs)
}

// TotalSize returns the summed buffer size of all blobs.
func (s *BinarySet) TotalSize() int64 {
	var total int64
	for _, b := range s.blobs {
		total += b.Size()
	}
	return total
}

package generate

// Batch is one bounded group of records requested in a single call.
type Batch struct {
	// Index is the zero-based batch number.
	Index int
	// Offset is the number of records requested before this batch.
	Offset int
	// Size is the number of records this batch asks for.
	Size int
}

// Number returns the one-based batch number used in logs.
func (b Batch) Number() int { return b.Index + 1 }

// Next returns the one-based position of the first record in the batch.
func (b Batch) Next() int { return b.Offset + 1 }

// PlanBatches partitions total into batches of size, the last one truncated
// to the remainder. It returns nil when total or size is not positive.
func PlanBatches(total, size int) []Batch {
	if total <= 0 || size <= 0 {
		return nil
	}
	batches := make([]Batch, 0, (total+size-1)/size)
	for offset := 0; offset < total; offset += size {
		batches = append(batches, Batch{
			Index:  len(batches),
			Offset: offset,
			Size:   min(size, total-offset),
		})
	}
	return batches
}

package staging

// PlanBySize partitions items into ordered batches whose byte sums stay
// within budget. A single item larger than the budget forms its own
// singleton batch rather than being dropped. Every input item appears in
// exactly one batch, and input order is preserved within and across
// batches; downstream row-offset computation depends on that.
func PlanBySize[T any](items []T, sizeOf func(T) int64, budget int64) [][]T {
	if len(items) == 0 {
		return nil
	}

	var (
		batches [][]T
		batch   []T
		used    int64
	)
	for _, item := range items {
		size := sizeOf(item)
		if len(batch) > 0 && used+size > budget {
			batches = append(batches, batch)
			batch = nil
			used = 0
		}
		batch = append(batch, item)
		used += size
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches
}

// ParallelDegree computes how many nominal slice-sized files fit in budget.
// Used on the read path, where actual object sizes are not known before the
// fetch. Never less than 1.
func ParallelDegree(budget, sliceSize int64) int {
	if sliceSize <= 0 {
		return 1
	}
	degree := budget / sliceSize
	if degree < 1 {
		return 1
	}
	return int(degree)
}

// PlanByCount partitions items into ordered batches of at most degree
// items, preserving order.
func PlanByCount[T any](items []T, degree int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if degree < 1 {
		degree = 1
	}

	batches := make([][]T, 0, (len(items)+degree-1)/degree)
	for start := 0; start < len(items); start += degree {
		end := start + degree
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end:end])
	}
	return batches
}

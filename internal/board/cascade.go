package board

// jump resolves overflow starting at cell start. Cells waiting for an
// overflow check sit in a FIFO worklist; propagation stops as soon as one
// color owns the whole board, even if cells are still overfull.
func (b *MutableBoard) jump(start int) {
	queue := []int{start}
	var adj [4]int
	for len(queue) > 0 {
		if _, won := b.Winner(); won {
			return
		}
		s := queue[0]
		queue = queue[1:]

		d := b.Neighbors(s)
		if b.spots[s-1] <= d {
			continue
		}
		owner := b.colors[s-1]
		b.set(s, b.spots[s-1]-d, owner)
		for _, e := range appendAdjacent(adj[:0], b.size, s) {
			b.set(e, b.spots[e-1]+1, owner)
			queue = append(queue, e)
		}
		if b.spots[s-1] > d {
			queue = append(queue, s)
		}
	}
}

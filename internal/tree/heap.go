package tree

// trimItem pairs an arena index with the node's score for the trim queue.
type trimItem struct {
	idx   int
	score int
}

// trimQueue is a min-heap over scores: the worst match is always on top.
// Equal scores pop the higher arena index first, so later-discovered
// entries are removed before earlier ones and trims are reproducible
// given the stable sibling order.
type trimQueue []trimItem

func (q trimQueue) Len() int { return len(q) }

func (q trimQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score < q[j].score
	}
	return q[i].idx > q[j].idx
}

func (q trimQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *trimQueue) Push(x any) {
	*q = append(*q, x.(trimItem))
}

func (q *trimQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

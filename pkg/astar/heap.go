package astar

// openHeap is a binary min-heap of arena indices ordered by Combined.
// Equal scores keep whatever order the sift operations leave them in.
type openHeap struct {
	nodes   []Node
	content []int
}

func (h *openHeap) reset(nodes []Node) {
	h.nodes = nodes
	h.content = h.content[:0]
}

func (h *openHeap) len() int { return len(h.content) }

func (h *openHeap) score(pos int) float64 { return h.nodes[h.content[pos]].Combined }

func (h *openHeap) push(n int) {
	h.content = append(h.content, n)
	h.nodes[n].heapIndex = len(h.content) - 1
	h.up(len(h.content) - 1)
}

func (h *openHeap) pop() int {
	result := h.content[0]
	last := len(h.content) - 1
	end := h.content[last]
	h.content = h.content[:last]
	if last > 0 {
		h.content[0] = end
		h.nodes[end].heapIndex = 0
		h.down(0)
	}
	h.nodes[result].heapIndex = -1
	return result
}

// rescore restores heap order after n's score decreased.
func (h *openHeap) rescore(n int) {
	if pos := h.nodes[n].heapIndex; pos >= 0 {
		h.up(pos)
	}
}

func (h *openHeap) up(pos int) {
	for pos > 0 {
		parent := (pos - 1) / 2
		if h.score(pos) >= h.score(parent) {
			break
		}
		h.swap(pos, parent)
		pos = parent
	}
}

func (h *openHeap) down(pos int) {
	length := len(h.content)
	for {
		child2 := (pos + 1) * 2
		child1 := child2 - 1
		swap := -1
		elemScore := h.score(pos)
		if child1 < length && h.score(child1) < elemScore {
			swap = child1
		}
		if child2 < length {
			against := elemScore
			if swap != -1 {
				against = h.score(child1)
			}
			if h.score(child2) < against {
				swap = child2
			}
		}
		if swap == -1 {
			return
		}
		h.swap(pos, swap)
		pos = swap
	}
}

func (h *openHeap) swap(i, j int) {
	h.content[i], h.content[j] = h.content[j], h.content[i]
	h.nodes[h.content[i]].heapIndex = i
	h.nodes[h.content[j]].heapIndex = j
}

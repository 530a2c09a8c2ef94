package detector

// Aho-Corasick automaton over bytes. Patterns and haystack are ASCII-folded
// UTF-8, so a match always starts and ends on a rune boundary. Each node
// keeps a dense 256-way table to keep the hot loop free of map lookups

type acNode struct {
	next   [256]int32 // -1 when absent
	fail   int32
	output []int // pattern ids ending here, own first then inherited
}

type acAutomaton struct {
	nodes []acNode
	lens  []int // pattern byte length by id
}

func newNode() acNode {
	var n acNode
	for i := range n.next {
		n.next[i] = -1
	}
	return n
}

func newAutomaton() *acAutomaton {
	return &acAutomaton{nodes: []acNode{newNode()}}
}

// add inserts pat under id. Ids must be dense and added in order
func (a *acAutomaton) add(pat []byte, id int) {
	for len(a.lens) <= id {
		a.lens = append(a.lens, 0)
	}
	a.lens[id] = len(pat)
	if len(pat) == 0 {
		return
	}
	state := int32(0)
	for _, b := range pat {
		nxt := a.nodes[state].next[b]
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes[state].next[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
}

// build computes failure links breadth first
func (a *acAutomaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for b := 0; b < 256; b++ {
		if s := a.nodes[0].next[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := 0; b < 256; b++ {
			s := a.nodes[r].next[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].next[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].next[b]; nxt != -1 && nxt != s {
				a.nodes[s].fail = nxt
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// each calls fn(start, end, id) for every occurrence, overlapping ones included
func (a *acAutomaton) each(text []byte, fn func(start, end, id int)) {
	state := int32(0)
	for i, b := range text {
		for state != 0 && a.nodes[state].next[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].next[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range a.nodes[state].output {
			fn(i+1-a.lens[id], i+1, id)
		}
	}
}

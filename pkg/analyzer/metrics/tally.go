package metrics

// tallyStore holds the operator and operand counts and the decision counters
// for one run.
type tallyStore struct {
	operators map[string]int
	operands  map[string]int

	ifDepth            int
	maxIfDepth         int
	decisionCount      int
	statementOperators int
}

func newTallyStore() *tallyStore {
	return &tallyStore{
		operators: make(map[string]int),
		operands:  make(map[string]int),
	}
}

func (t *tallyStore) recordOperator(token string) {
	t.operators[token]++
}

func (t *tallyStore) recordOperand(token string) {
	t.operands[token]++
}

func (t *tallyStore) enterDecision(n int) {
	t.ifDepth += n
}

func (t *tallyStore) exitDecision(n int) {
	t.ifDepth -= n
	if t.ifDepth < 0 {
		panic("metrics: if depth went negative")
	}
}

// observeDepth raises the high-water mark to the current depth.
func (t *tallyStore) observeDepth() {
	if t.ifDepth > t.maxIfDepth {
		t.maxIfDepth = t.ifDepth
	}
}

package metrics

type scopeKind uint8

const (
	scopeBlock scopeKind = iota
	scopeControlCondition
	scopeAssignment
)

func (k scopeKind) String() string {
	switch k {
	case scopeBlock:
		return "block"
	case scopeControlCondition:
		return "control"
	case scopeAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// scopeFrame is one entry of the scope stack. target is set only for
// scopeAssignment frames.
type scopeFrame struct {
	kind   scopeKind
	target string
}

func blockFrame() scopeFrame {
	return scopeFrame{kind: scopeBlock}
}

func controlFrame() scopeFrame {
	return scopeFrame{kind: scopeControlCondition}
}

func assignFrame(target string) scopeFrame {
	return scopeFrame{kind: scopeAssignment, target: target}
}

type scopeStack struct {
	frames []scopeFrame
}

func (s *scopeStack) enter(f scopeFrame) {
	s.frames = append(s.frames, f)
}

func (s *scopeStack) exit() {
	if len(s.frames) == 0 {
		panic("metrics: exit on empty scope stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) current() scopeFrame {
	if len(s.frames) == 0 {
		panic("metrics: current on empty scope stack")
	}
	return s.frames[len(s.frames)-1]
}

func (s *scopeStack) depth() int {
	return len(s.frames)
}

package clipstack

// IterStart selects the end of the stack an iterator starts from.
type IterStart uint8

const (
	// IterBottom starts at the oldest element.
	IterBottom IterStart = iota

	// IterTop starts at the most recent element.
	IterTop
)

// Iter is a bidirectional cursor over the elements of a Stack.
//
// Next and Prev return the element under the cursor and then move it up or
// down. Once the cursor runs off either end it returns nil until Reset.
// The stack must not be modified while an iterator is in use.
type Iter struct {
	stack *Stack
	pos   int
}

// NewIter creates an iterator over s starting at the given end.
func NewIter(s *Stack, start IterStart) *Iter {
	it := &Iter{}
	it.Reset(s, start)
	return it
}

// Reset repositions the iterator at the given end of s.
func (it *Iter) Reset(s *Stack, start IterStart) {
	it.stack = s
	if start == IterTop {
		it.pos = len(s.elements) - 1
	} else {
		it.pos = 0
	}
}

func (it *Iter) current() *Element {
	if it.stack == nil || it.pos < 0 || it.pos >= len(it.stack.elements) {
		return nil
	}
	return it.stack.elements[it.pos]
}

// Next returns the current element and moves toward the top.
func (it *Iter) Next() *Element {
	e := it.current()
	if e != nil {
		it.pos++
	}
	return e
}

// Prev returns the current element and moves toward the bottom.
func (it *Iter) Prev() *Element {
	e := it.current()
	if e != nil {
		it.pos--
	}
	return e
}

// SkipToTopmost moves the iterator to the topmost element whose op is op and
// returns it as Next would. When no element matches, the bottom element is
// returned. Consumers start here to skip everything a later Replace made
// irrelevant. It returns nil for an empty stack.
func (it *Iter) SkipToTopmost(op Op) *Element {
	if it.stack == nil || len(it.stack.elements) == 0 {
		return nil
	}
	elems := it.stack.elements
	i := len(elems) - 1
	for ; i > 0; i-- {
		if elems[i].op == op {
			break
		}
	}
	it.pos = i
	return it.Next()
}

// B2TIter walks the elements of a Stack from bottom to top only.
type B2TIter struct {
	it Iter
}

// NewB2TIter creates a bottom-to-top iterator over s.
func NewB2TIter(s *Stack) *B2TIter {
	b := &B2TIter{}
	b.Reset(s)
	return b
}

// Reset repositions the iterator at the bottom of s.
func (b *B2TIter) Reset(s *Stack) {
	b.it.Reset(s, IterBottom)
}

// Next returns the current element and moves toward the top, or nil once the
// top has been passed.
func (b *B2TIter) Next() *Element {
	return b.it.Next()
}

package clipstack

// PurgeListener is notified when a clip state becomes unreachable. After
// PurgeClip returns, any cache entry keyed by genID should be dropped.
//
// Listeners are compared with ==, so implementations must be comparable;
// pointer receivers are the usual choice.
type PurgeListener interface {
	PurgeClip(genID GenID)
}

// purgeFunc adapts a function to PurgeListener. It is always used through a
// pointer so that each registration has its own identity.
type purgeFunc struct {
	fn func(GenID)
}

func (p *purgeFunc) PurgeClip(genID GenID) { p.fn(genID) }

// purgeRegistry is the side table of listeners owned by one Stack. It is
// deliberately not part of the stack's copied value state.
type purgeRegistry struct {
	listeners []PurgeListener
}

func (r *purgeRegistry) add(l PurgeListener) {
	for _, existing := range r.listeners {
		if existing == l {
			return
		}
	}
	r.listeners = append(r.listeners, l)
}

// remove deletes l by swapping in the last listener, so notification order is
// not preserved.
func (r *purgeRegistry) remove(l PurgeListener) bool {
	for i, existing := range r.listeners {
		if existing == l {
			last := len(r.listeners) - 1
			r.listeners[i] = r.listeners[last]
			r.listeners[last] = nil
			r.listeners = r.listeners[:last]
			return true
		}
	}
	return false
}

func (r *purgeRegistry) notify(genID GenID) {
	for _, l := range r.listeners {
		l.PurgeClip(genID)
	}
}

// AddPurgeListener registers l to be told whenever a clip state of this stack
// becomes unreachable: when restore pops an element, when reset clears the
// stack, when an element is merged in place, or when a new element buries the
// previous top of the same save scope. Adding the same listener twice has no
// effect. Listeners are not copied by Clone.
//
// The listener must stay valid until it is removed.
func (s *Stack) AddPurgeListener(l PurgeListener) {
	if l == nil {
		panic("clipstack: AddPurgeListener with nil listener")
	}
	s.purge.add(l)
}

// RemovePurgeListener deregisters l. It reports whether l was registered.
// A removed listener is never called again.
func (s *Stack) RemovePurgeListener(l PurgeListener) bool {
	return s.purge.remove(l)
}

// OnPurge registers fn as a purge listener and returns a function that
// removes it again.
func (s *Stack) OnPurge(fn func(GenID)) (remove func()) {
	l := &purgeFunc{fn: fn}
	s.AddPurgeListener(l)
	return func() { s.purge.remove(l) }
}

// purgeClip announces that the state identified by e's generation ID is no
// longer reachable. Reserved IDs are not announced. The element's ID is then
// invalidated so the same state is never announced twice.
func (s *Stack) purgeClip(e *Element) {
	if e.genID.IsReserved() {
		return
	}
	if len(s.purge.listeners) > 0 {
		s.logger().Debug("clipstack: purge",
			"genID", uint32(e.genID),
			"listeners", len(s.purge.listeners))
		s.purge.notify(e.genID)
	}
	e.genID = InvalidGenID
}

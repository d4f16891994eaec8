package layers

// Stack is an ordered sequence of adjustment layers. Order is blend
// order: index 0 is applied first (bottom of the stack).
type Stack struct {
	layers []*Layer
	active int
	solo   bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Layers returns the live layer sequence in blend order.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// ActiveIndex returns the index of the active layer.
func (s *Stack) ActiveIndex() int {
	return s.active
}

// SetActive selects the active layer, clamping into bounds.
func (s *Stack) SetActive(index int) {
	s.active = s.clampIndex(index)
}

// ActiveLayer returns the active layer, or nil for an empty stack.
func (s *Stack) ActiveLayer() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[s.clampIndex(s.active)]
}

// Solo reports whether solo mode is on.
func (s *Stack) Solo() bool {
	return s.solo
}

// Add appends a layer and makes it active.
func (s *Stack) Add(l *Layer) {
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	if s.solo {
		s.applySolo()
	}
}

// Remove deletes the layer at index. Subsequent indices shift down and
// the active index is clamped back into bounds. Out-of-range indices are
// a no-op.
func (s *Stack) Remove(index int) {
	if index < 0 || index >= len(s.layers) {
		return
	}
	s.layers = append(s.layers[:index], s.layers[index+1:]...)
	s.active = s.clampIndex(s.active)
	if s.solo {
		s.applySolo()
	}
}

// Move swaps the layer at index with its neighbor: direction < 0 moves
// toward the bottom, direction > 0 toward the top. Moves past either
// boundary are no-ops.
func (s *Stack) Move(index, direction int) {
	target := index
	switch {
	case direction < 0:
		target = index - 1
	case direction > 0:
		target = index + 1
	}
	if index < 0 || index >= len(s.layers) || target < 0 || target >= len(s.layers) || target == index {
		return
	}
	s.layers[index], s.layers[target] = s.layers[target], s.layers[index]
	if s.active == index {
		s.active = target
	} else if s.active == target {
		s.active = index
	}
}

// Duplicate inserts a deep copy of the layer at index directly above it.
// The copy's name gets a " Copy" suffix; everything else is preserved.
func (s *Stack) Duplicate(index int) *Layer {
	if index < 0 || index >= len(s.layers) {
		return nil
	}
	copied := s.layers[index].clone()
	copied.Name = copied.Name + " Copy"

	s.layers = append(s.layers, nil)
	copy(s.layers[index+2:], s.layers[index+1:])
	s.layers[index+1] = copied
	s.active = index + 1
	if s.solo {
		s.applySolo()
	}
	return copied
}

// ToggleSolo toggles solo mode on the layer at index. While solo is on,
// only that layer stays visible; turning solo off restores every layer
// to visible.
func (s *Stack) ToggleSolo(index int) {
	if index < 0 || index >= len(s.layers) {
		return
	}
	if s.solo && s.active == index {
		s.solo = false
		for _, l := range s.layers {
			l.Visible = true
		}
		return
	}
	s.solo = true
	s.active = index
	s.applySolo()
}

func (s *Stack) applySolo() {
	for i, l := range s.layers {
		l.Visible = i == s.active
	}
}

// Clear empties the stack and resets the active index.
func (s *Stack) Clear() {
	s.layers = nil
	s.active = 0
	s.solo = false
}

func (s *Stack) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(s.layers) && len(s.layers) > 0 {
		return len(s.layers) - 1
	}
	if len(s.layers) == 0 {
		return 0
	}
	return index
}

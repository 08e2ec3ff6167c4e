package dataset

// Mask selects rows: position i is kept when Mask[i] is true.
type Mask []bool

// AllTrue returns a mask of n true values.
func AllTrue(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Count returns the number of selected rows.
func (m Mask) Count() int {
	n := 0
	for _, keep := range m {
		if keep {
			n++
		}
	}
	return n
}

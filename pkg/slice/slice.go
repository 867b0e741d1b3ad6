package slice

// FixedSizeSlice is a set of indices in [0, length)
type FixedSizeSlice struct {
	slice        []bool
	numSetValues int
}

func MakeFixedSizeSlice(length int) FixedSizeSlice {
	return FixedSizeSlice{slice: make([]bool, length), numSetValues: 0}
}
func (s *FixedSizeSlice) Len() int { return s.numSetValues }

// Add sets the indices and reports how many were not set before
func (s *FixedSizeSlice) Add(indices ...int) int {
	added := 0
	for _, index := range indices {
		if !s.slice[index] {
			s.slice[index] = true
			s.numSetValues++
			added++
		}
	}
	return added
}

func (s *FixedSizeSlice) Has(index int) bool { return s.slice[index] }
func (s *FixedSizeSlice) Ratio() float64    { return float64(s.numSetValues) / float64(len(s.slice)) }

func ReverseInPlace[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func Contains[T comparable](s []T, value T) bool {
	for _, a := range s {
		if a == value {
			return true
		}
	}
	return false
}

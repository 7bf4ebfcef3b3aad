package bind

// Equaler is implemented by value types that define their own equality.
// The method must have a value receiver to be found.
type Equaler[T any] interface {
	Equal(other T) bool
}

// Equal compares a and b with the type's Equal method when it has one and
// with == otherwise. It is the default equality of New.
func Equal[T comparable](a, b T) bool {
	if e, ok := any(a).(Equaler[T]); ok {
		return e.Equal(b)
	}
	return a == b
}

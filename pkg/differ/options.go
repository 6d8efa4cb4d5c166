package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// SuppressFunc reports whether items present in presentIn and missing from
// missingFrom are expected and should not be reported.
type SuppressFunc func(presentIn, missingFrom string) bool

// WithSuppression sets the predicate used to silence one direction of a comparison
func WithSuppression(fn SuppressFunc) Option {
	return func(d *differ) {
		d.suppress = fn
	}
}

// SuppressDirection returns a SuppressFunc silencing exactly one direction.
func SuppressDirection(presentIn, missingFrom string) SuppressFunc {
	return func(p, m string) bool {
		return p == presentIn && m == missingFrom
	}
}

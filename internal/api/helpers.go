package api

// valueOf dereferences an optional request body. A missing body becomes the
// zero request so field validation reports what is required.
func valueOf[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

package model

// ModelBuilderOption is a functional option for configuring a Model.
type ModelBuilderOption func(*model)

// WithBoundingRadius sets the bounding radius reported by the model.
//
// Parameters:
//   - r: the radius
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithBoundingRadius(r float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = r
	}
}

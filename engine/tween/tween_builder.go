package tween

import "github.com/Carmen-Shannon/oxy-pano/engine/logger"

// AnimatorOption is a functional option for configuring an Animator.
type AnimatorOption func(*animatorImpl)

// WithLogger sets the logger used for tween diagnostics.
func WithLogger(l *logger.Logger) AnimatorOption {
	return func(a *animatorImpl) {
		if l != nil {
			a.log = l
		}
	}
}

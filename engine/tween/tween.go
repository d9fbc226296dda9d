// Package tween runs keyed float animations advanced by the engine tick.
package tween

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type animation struct {
	tween *gween.Tween
	apply func(float32)
	done  func()
}

type animatorImpl struct {
	mu *sync.Mutex

	log *logger.Logger

	animations map[string]*animation
}

// Animator runs named tweens. Each key holds at most one tween; starting a key that is running replaces it
// without finishing the old one. Apply callbacks run on the goroutine calling Update, outside the lock, so
// they may start or cancel tweens.
type Animator interface {
	// Animate starts a tween from one value to another.
	// apply receives the starting value immediately and every eased value on Update, including the final one.
	//
	// Parameters:
	//   - key: identifies the tween, e.g. "fade:sprite_7"
	//   - from, to: the start and end values
	//   - duration: length in seconds; zero or less jumps straight to the end value
	//   - easing: the easing curve, e.g. ease.OutQuad
	//   - apply: receives each value
	Animate(key string, from, to, duration float32, easing ease.TweenFunc, apply func(float32))

	// AnimateThen is Animate with a callback run once after the final value has been applied.
	AnimateThen(key string, from, to, duration float32, easing ease.TweenFunc, apply func(float32), done func())

	// Cancel stops a tween where it is. Unknown keys are ignored.
	//
	// Parameters:
	//   - key: the tween to stop
	Cancel(key string)

	// Running reports whether a tween is active for key.
	Running(key string) bool

	// Active returns the number of running tweens.
	Active() int

	// Update advances every tween by dt seconds and drops the finished ones.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}

var _ Animator = &animatorImpl{}

// NewAnimator creates an Animator with no running tweens.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the new animator
func NewAnimator(options ...AnimatorOption) Animator {
	a := &animatorImpl{
		mu:         &sync.Mutex{},
		log:        logger.Nop(),
		animations: make(map[string]*animation),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *animatorImpl) Animate(key string, from, to, duration float32, easing ease.TweenFunc, apply func(float32)) {
	a.AnimateThen(key, from, to, duration, easing, apply, nil)
}

func (a *animatorImpl) AnimateThen(key string, from, to, duration float32, easing ease.TweenFunc, apply func(float32), done func()) {
	if apply == nil {
		apply = func(float32) {}
	}
	if duration <= 0 {
		a.Cancel(key)
		apply(to)
		if done != nil {
			done()
		}
		return
	}
	if easing == nil {
		easing = ease.Linear
	}

	a.mu.Lock()
	a.animations[key] = &animation{
		tween: gween.New(from, to, duration, easing),
		apply: apply,
		done:  done,
	}
	a.mu.Unlock()

	apply(from)
}

func (a *animatorImpl) Cancel(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.animations, key)
}

func (a *animatorImpl) Running(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.animations[key]
	return ok
}

func (a *animatorImpl) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.animations)
}

func (a *animatorImpl) Update(dt float32) {
	type step struct {
		anim     *animation
		value    float32
		finished bool
	}

	a.mu.Lock()
	steps := make([]step, 0, len(a.animations))
	for key, anim := range a.animations {
		v, finished := anim.tween.Update(dt)
		steps = append(steps, step{anim, v, finished})
		if finished {
			delete(a.animations, key)
			a.log.Debugw("tween finished", "key", key)
		}
	}
	a.mu.Unlock()

	for _, s := range steps {
		s.anim.apply(s.value)
		if s.finished && s.anim.done != nil {
			s.anim.done()
		}
	}
}

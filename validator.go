package eventbus

import "sync"

// validatorRegistry holds at most one custom validator per event type.
// Registration is last-write-wins.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// newValidatorRegistry creates an empty validator registry.
func newValidatorRegistry() *validatorRegistry {
	return &validatorRegistry{
		validators: make(map[string]Validator),
	}
}

// set registers a validator for an event type, replacing any previous one.
func (r *validatorRegistry) set(eventType string, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.validators[eventType] = v
}

// unset removes the validator for an event type, if any.
func (r *validatorRegistry) unset(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.validators, eventType)
}

// get returns the validator registered for an event type.
func (r *validatorRegistry) get(eventType string) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.validators[eventType]
	return v, ok
}

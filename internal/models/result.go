package models

// Result reports the outcome of an idempotent mutation. Success false with a
// message is a no-op, not a failure.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK(message string) Result {
	return Result{Success: true, Message: message}
}

func Noop(message string) Result {
	return Result{Success: false, Message: message}
}

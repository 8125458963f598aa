package domain

// Result is the uniform envelope every user-facing operation returns.
// Failures are reported here, never as an unhandled fault.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

package console

// UserError is shown to the player instead of ending the connection. It
// reports bad input, not a system failure.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

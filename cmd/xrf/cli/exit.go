package cli

import "fmt"

// ExitError ends the process with Code without printing anything more.
// Commands return it after writing their own report, for outcomes such as
// verification findings or files that failed to unpack.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// SPDX-License-Identifier: MPL-2.0

package system

import "strings"

type (
	// Command is a single external program invocation: the binary name (or
	// path) and its arguments, kept separate so nothing is ever passed
	// through a shell.
	Command struct {
		Name string
		Args []string
	}

	// CommandResult captures the observable outcome of a finished command.
	CommandResult struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}
)

// NewCommand builds a Command from a binary name and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders the invocation as a single space-joined line. It is used
// for logging and error messages, not for execution.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

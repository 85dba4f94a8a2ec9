// ABOUTME: Side-effect interfaces used by the failure handler
// ABOUTME: Notifier shows a message to the user, Navigator moves the shell

package client

import (
	"fmt"
	"io"
)

// Notifier surfaces a message to the user
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Navigator redirects the application to a path
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }

// WriterNotifier prints notices to a writer, typically stderr
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(message string) {
	fmt.Fprintf(n.W, "! %s\n", message)
}

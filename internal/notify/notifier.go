// Package notify carries transient user-facing notices, the client-side
// stand-in for toast notifications.
package notify

import "log"

// Kind classifies a notice. Validation failures never reach the network;
// request failures are backend rejections or transport errors; partial
// failures summarize a bulk run that finished with per-item errors.
type Kind string

// Notice kinds
const (
	KindValidation     Kind = "validation"
	KindRequestFailed  Kind = "request_failed"
	KindPartialFailure Kind = "partial_failure"
)

// Notice is one transient message shown to the user.
type Notice struct {
	Kind    Kind
	Message string
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to the Notifier interface.
type Func func(Notice)

// Notify implements Notifier.
func (f Func) Notify(n Notice) { f(n) }

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a Notifier backed by logger.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(notice Notice) {
	n.logger.Printf("[%s] %s", notice.Kind, notice.Message)
}

// Discard drops all notices, for tests and headless runs.
var Discard Notifier = Func(func(Notice) {})

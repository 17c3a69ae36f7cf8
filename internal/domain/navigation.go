package domain

type Transition struct {
	From string
	To   string
}

type Action string

const (
	ActionProceed  Action = "proceed"
	ActionRedirect Action = "redirect"
)

type Decision struct {
	Action Action
	Path   string
	// Reason is a short label for logs and the CLI hop trace.
	Reason string
}

func Proceed(reason string) Decision {
	return Decision{Action: ActionProceed, Reason: reason}
}

func Redirect(path string, reason string) Decision {
	return Decision{Action: ActionRedirect, Path: path, Reason: reason}
}

func (d Decision) IsRedirect() bool {
	return d.Action == ActionRedirect
}

package model

// Variant is the severity of a notification
type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

// Notification is a short titled message shown to the user for a few seconds
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier presents transient notifications. The TUI implements it with a toast,
// the one-shot command with a log line on stderr.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

package notify

import "io"

// BellNotifier rings the terminal bell. It writes BEL to the given
// sink, normally stderr so the TUI's stdout framebuffer stays intact.
type BellNotifier struct {
	enabled bool
	out     io.Writer
}

// NewBellNotifier creates a bell notifier writing to out
func NewBellNotifier(enabled bool, out io.Writer) *BellNotifier {
	return &BellNotifier{enabled: enabled, out: out}
}

// Send rings the bell; write errors are swallowed, a notification must
// never take the application down
func (b *BellNotifier) Send(n Notification) error {
	if !b.enabled || b.out == nil {
		return nil
	}
	b.out.Write([]byte("\a"))
	return nil
}

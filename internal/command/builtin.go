package command

import (
	"errors"
	"strings"

	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Builtins registers the Go commands every registry starts with:
//
//	send-keys [-l] key...   write keys to the active pane
//	set-buffer text...      copy text to the clipboard
//	display-message text... log text at info level
func Builtins(r *Registry) error {
	return errors.Join(
		r.Register("send-keys", sendKeysCommand),
		r.Register("set-buffer", setBufferCommand),
		r.Register("display-message", displayMessageCommand),
	)
}

func sendKeysCommand(ctx *execctx.Context, args []string) error {
	literal := false
	if len(args) > 0 && args[0] == "-l" {
		literal = true
		args = args[1:]
	}
	return SendKeys(ctx, literal, args...)
}

// SendKeys writes each name to the active pane's process. Names that do
// not parse as keys, or every name when literal is set, are written as
// text.
func SendKeys(ctx *execctx.Context, literal bool, names ...string) error {
	pane, err := ctx.ActivePane()
	if err != nil {
		return err
	}
	proc := pane.Process()
	if proc == nil {
		return errors.New("send-keys: pane has no process")
	}
	for _, name := range names {
		if !literal {
			if ev, err := key.Parse(name); err == nil && !ev.IsAny() {
				proc.WriteKey(ev)
				continue
			}
		}
		proc.WriteInput(name, false)
	}
	return nil
}

func setBufferCommand(ctx *execctx.Context, args []string) error {
	if ctx.Clipboard == nil {
		return execctx.ErrMissingClipboard
	}
	return ctx.Clipboard.SetText(strings.Join(args, " "))
}

func displayMessageCommand(ctx *execctx.Context, args []string) error {
	ctx.Logger.Info("%s", strings.Join(args, " "))
	return nil
}

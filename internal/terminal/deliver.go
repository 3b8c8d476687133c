package terminal

import (
	"github.com/dshills/muxkeys/internal/dispatcher"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Handler receives decoded inputs. *dispatcher.Dispatcher implements it.
type Handler interface {
	HandleKey(ev key.Event) (dispatcher.Result, error)
	HandlePaste(data string) (dispatcher.Result, error)
}

// Deliver routes in to the matching Handler method.
func Deliver(h Handler, in Input) (dispatcher.Result, error) {
	if in.Paste {
		return h.HandlePaste(in.Data)
	}
	return h.HandleKey(in.Key)
}

// Package terminal converts terminal library key events into key.Event
// values and feeds them to a dispatcher.
//
// Two sources are supported: tcell screens (Decoder, Source) and Bubble
// Tea key messages (FromTea). Both produce an Input, which Deliver hands
// to anything with HandleKey and HandlePaste methods.
//
//	src := terminal.NewSource(screen)
//	for {
//		in, ok := src.Next()
//		if !ok {
//			break
//		}
//		res, err := terminal.Deliver(d, in)
//		...
//	}
package terminal

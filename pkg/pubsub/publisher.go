package pubsub

import "context"

// Pack is one message on the wire: an ordering key and an opaque payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
	Stop(context.Context) error
}

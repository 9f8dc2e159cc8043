package pubsub

type Pack struct {
	Key []byte
	Msg []byte
}

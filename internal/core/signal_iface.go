package core

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection is the outbound half of a client socket. The adapter owns
// the socket; the coordinator only queues frames and may ask for it to close.
type SignalConnection interface {
	// TrySend enqueues f without blocking; an error means the frame was not queued.
	TrySend(Frame) error
	Close()
}

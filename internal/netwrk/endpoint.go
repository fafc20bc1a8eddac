//go:build unix

package netwrk

import (
	"errors"
	"log/slog"

	"airhockey/internal/protocol"
	apperrors "airhockey/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// readChunk bounds a single read; frames larger than this simply take more
// than one readiness event to arrive.
const readChunk = 4096

type State int

const (
	Open State = iota
	Reading
	Writing
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "OPEN"
	case Reading:
		return "READING"
	case Writing:
		return "WRITING"
	case Closed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// MessageHandler receives every complete inbound frame in arrival order. A
// returned error aborts the current read and is handed back to the caller of
// HandleReadable.
type MessageHandler func(ep *Endpoint, msg protocol.Message) error

// Endpoint is one non-blocking framed connection registered with a Poller. It
// keeps its own inbound reassembly buffer and outbound send buffer.
type Endpoint struct {
	id        string
	fd        int
	addr      string
	poller    *Poller
	decoder   *protocol.Decoder
	readBuf   []byte
	sendBuf   []byte
	onMessage MessageHandler
	state     State
	logger    *slog.Logger
}

// NewEndpoint takes ownership of fd, which must already be non-blocking, and
// closes it if registration fails.
func NewEndpoint(fd int, addr string, poller *Poller, maxFrameSize int, onMessage MessageHandler, logger *slog.Logger) (*Endpoint, error) {
	if err := poller.Register(fd, Readable); err != nil {
		unix.Close(fd)
		return nil, err
	}

	id := uuid.NewString()
	return &Endpoint{
		id:        id,
		fd:        fd,
		addr:      addr,
		poller:    poller,
		decoder:   protocol.NewDecoder(maxFrameSize),
		readBuf:   make([]byte, readChunk),
		onMessage: onMessage,
		state:     Open,
		logger:    logger.With(slog.String("endpoint", id), slog.String("addr", addr)),
	}, nil
}

func (e *Endpoint) ID() string {
	return e.id
}

func (e *Endpoint) Addr() string {
	return e.addr
}

func (e *Endpoint) Fd() int {
	return e.fd
}

func (e *Endpoint) State() State {
	return e.state
}

// Pending is the number of bytes queued but not yet written.
func (e *Endpoint) Pending() int {
	return len(e.sendBuf)
}

// HandleEvent services one readiness report for this endpoint.
func (e *Endpoint) HandleEvent(ev Event) error {
	if ev.Readable || ev.Hangup {
		if err := e.HandleReadable(); err != nil {
			return err
		}
	}
	if ev.Writable && e.state != Closed {
		return e.HandleWritable()
	}
	return nil
}

// HandleReadable performs one read and dispatches every frame it completes.
// A clean shutdown by the peer is reported as ErrPeerClosed.
func (e *Endpoint) HandleReadable() error {
	if e.state == Closed {
		return nil
	}

	e.state = Reading
	defer e.settle()

	n, err := unix.Read(e.fd, e.readBuf)
	switch {
	case errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR):
		return nil
	case err != nil:
		return apperrors.Wrap(apperrors.ErrConnReset, err)
	case n == 0:
		return apperrors.ErrPeerClosed.WithDetails("%s closed the connection", e.addr)
	}

	e.decoder.Feed(e.readBuf[:n])
	for {
		msg, err := e.decoder.Next()
		if err != nil {
			return err
		}
		if msg == nil {
			return nil
		}

		e.logger.Debug("received message", slog.Any("header", msg.Header))
		if err := e.onMessage(e, *msg); err != nil {
			return err
		}
		if e.state == Closed {
			return nil
		}
	}
}

// HandleWritable performs one write of the pending bytes and keeps whatever
// the kernel did not take. Write interest is dropped once the buffer drains.
func (e *Endpoint) HandleWritable() error {
	if e.state == Closed {
		return nil
	}
	if len(e.sendBuf) == 0 {
		return e.watch(Readable)
	}

	e.state = Writing
	defer e.settle()

	n, err := unix.Write(e.fd, e.sendBuf)
	switch {
	case errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR):
		return nil
	case err != nil:
		return apperrors.Wrap(apperrors.ErrConnReset, err)
	}

	e.sendBuf = e.sendBuf[n:]
	if len(e.sendBuf) > 0 {
		return nil
	}
	e.sendBuf = nil
	return e.watch(Readable)
}

// Send frames b and queues it. Nothing is written until the endpoint is
// reported writable.
func (e *Endpoint) Send(b protocol.Body) error {
	if e.state == Closed {
		return apperrors.ErrPeerClosed.WithDetails("send %s on closed endpoint", b.Header())
	}

	frame, err := protocol.EncodeBody(b)
	if err != nil {
		return err
	}

	wasEmpty := len(e.sendBuf) == 0
	e.sendBuf = append(e.sendBuf, frame...)
	if wasEmpty {
		return e.watch(Readable | Writable)
	}
	return nil
}

// Flush makes one best-effort attempt to write what is still queued.
func (e *Endpoint) Flush() {
	if e.state == Closed || len(e.sendBuf) == 0 {
		return
	}
	if n, err := unix.Write(e.fd, e.sendBuf); err == nil {
		e.sendBuf = e.sendBuf[n:]
	}
}

// Close unregisters and closes the socket. Closing twice is a no-op.
func (e *Endpoint) Close() error {
	if e.state == Closed {
		return nil
	}
	e.state = Closed
	e.sendBuf = nil
	e.poller.Unregister(e.fd)
	return unix.Close(e.fd)
}

func (e *Endpoint) settle() {
	if e.state != Closed {
		e.state = Open
	}
}

func (e *Endpoint) watch(in Interest) error {
	if e.state == Closed {
		return nil
	}
	return e.poller.Modify(e.fd, in)
}

//go:build unix

package netwrk

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Interest is the set of readiness conditions a descriptor is watched for.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
)

// Event reports the readiness of one registered descriptor.
type Event struct {
	Fd       int
	Readable bool
	Writable bool
	// Hangup covers POLLHUP, POLLERR and POLLNVAL. A read will surface the cause.
	Hangup bool
}

// Poller is a readiness multiplexer over poll(2). It is not safe for
// concurrent use; it is meant to be owned by a single event loop.
type Poller struct {
	interest map[int]Interest
	fds      []unix.PollFd
}

func NewPoller() *Poller {
	return &Poller{interest: map[int]Interest{}}
}

func (p *Poller) Register(fd int, in Interest) error {
	if _, ok := p.interest[fd]; ok {
		return fmt.Errorf("fd %d already registered", fd)
	}
	p.interest[fd] = in
	return nil
}

func (p *Poller) Modify(fd int, in Interest) error {
	if _, ok := p.interest[fd]; !ok {
		return fmt.Errorf("fd %d not registered", fd)
	}
	p.interest[fd] = in
	return nil
}

// Unregister stops watching fd. Unknown descriptors are ignored.
func (p *Poller) Unregister(fd int) {
	delete(p.interest, fd)
}

func (p *Poller) Interest(fd int) (Interest, bool) {
	in, ok := p.interest[fd]
	return in, ok
}

func (p *Poller) Len() int {
	return len(p.interest)
}

// Wait blocks until a registered descriptor is ready or timeout elapses. A
// negative timeout blocks indefinitely. An interrupted wait returns no events.
func (p *Poller) Wait(timeout time.Duration) ([]Event, error) {
	p.fds = p.fds[:0]
	for fd, in := range p.interest {
		var events int16
		if in&Readable != 0 {
			events |= unix.POLLIN
		}
		if in&Writable != 0 {
			events |= unix.POLLOUT
		}
		p.fds = append(p.fds, unix.PollFd{Fd: int32(fd), Events: events})
	}

	n, err := unix.Poll(p.fds, timeoutMillis(timeout))
	if errors.Is(err, unix.EINTR) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	events := make([]Event, 0, n)
	for _, pfd := range p.fds {
		if pfd.Revents == 0 {
			continue
		}
		events = append(events, Event{
			Fd:       int(pfd.Fd),
			Readable: pfd.Revents&unix.POLLIN != 0,
			Writable: pfd.Revents&unix.POLLOUT != 0,
			Hangup:   pfd.Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0,
		})
	}
	return events, nil
}

func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if ms == 0 && d > 0 {
		ms = 1
	}
	return ms
}

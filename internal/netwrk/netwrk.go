//go:build unix

package netwrk

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by Accept when no connection is pending.
var ErrWouldBlock = errors.New("operation would block")

// Listener is a non-blocking TCP listening socket.
type Listener struct {
	fd     int
	addr   netip.AddrPort
	closed bool
}

// Listen binds host:port on IPv4. An empty host listens on all interfaces and
// port 0 picks a free port.
func Listen(host string, port, backlog int) (*Listener, error) {
	ip, err := resolveIPv4(host)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	unix.CloseOnExec(fd)

	fail := func(op string, err error) (*Listener, error) {
		unix.Close(fd)
		return nil, fmt.Errorf("%s %s:%d: %w", op, host, port, err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail("setsockopt", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port, Addr: ip.As4()}); err != nil {
		return fail("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return fail("listen", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return fail("set nonblock", err)
	}

	sa, err := unix.Getsockname(fd)
	if err != nil {
		return fail("getsockname", err)
	}
	addr, _ := sockaddrAddrPort(sa)

	return &Listener{fd: fd, addr: addr}, nil
}

func (l *Listener) Fd() int {
	return l.fd
}

func (l *Listener) Addr() string {
	return l.addr.String()
}

func (l *Listener) Port() int {
	return int(l.addr.Port())
}

// Accept returns the descriptor of a new connection, already non-blocking.
// It returns ErrWouldBlock when nothing is pending.
func (l *Listener) Accept() (int, string, error) {
	nfd, sa, err := unix.Accept(l.fd)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) ||
			errors.Is(err, unix.EINTR) || errors.Is(err, unix.ECONNABORTED) {
			return -1, "", ErrWouldBlock
		}
		return -1, "", fmt.Errorf("accept: %w", err)
	}
	unix.CloseOnExec(nfd)

	if err := prepareConn(nfd); err != nil {
		unix.Close(nfd)
		return -1, "", err
	}

	addr, ok := sockaddrAddrPort(sa)
	if !ok {
		return nfd, "unknown", nil
	}
	return nfd, addr.String(), nil
}

// Close releases the listening socket; closing twice is a no-op.
func (l *Listener) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return unix.Close(l.fd)
}

// Dial connects to addr ("host:port") and returns a non-blocking descriptor.
func Dial(addr string) (int, string, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return -1, "", err
	}
	ip, ok := netip.AddrFromSlice(tcpAddr.IP.To4())
	if !ok {
		return -1, "", fmt.Errorf("dial %s: not an IPv4 address", addr)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, "", fmt.Errorf("socket: %w", err)
	}
	unix.CloseOnExec(fd)

	sa := &unix.SockaddrInet4{Port: tcpAddr.Port, Addr: ip.As4()}
	for {
		err = unix.Connect(fd, sa)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		unix.Close(fd)
		return -1, "", fmt.Errorf("connect %s: %w", addr, err)
	}

	if err := prepareConn(fd); err != nil {
		unix.Close(fd)
		return -1, "", err
	}
	return fd, netip.AddrPortFrom(ip, uint16(tcpAddr.Port)).String(), nil
}

func prepareConn(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set nonblock: %w", err)
	}
	// Frames are small and latency matters more than throughput.
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		return fmt.Errorf("set nodelay: %w", err)
	}
	return nil
}

func resolveIPv4(host string) (netip.Addr, error) {
	if host == "" {
		return netip.IPv4Unspecified(), nil
	}
	ipAddr, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return netip.Addr{}, err
	}
	ip, ok := netip.AddrFromSlice(ipAddr.IP.To4())
	if !ok {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", host)
	}
	return ip, nil
}

func sockaddrAddrPort(sa unix.Sockaddr) (netip.AddrPort, bool) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(sa.Addr), uint16(sa.Port)), true
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(sa.Addr), uint16(sa.Port)), true
	}
	return netip.AddrPort{}, false
}


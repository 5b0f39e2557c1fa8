package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Discovery answers UDP probes with a JSON status, so remotes can find
// running instances on the local network without configuration.
type Discovery struct {
	ctrl     Controller
	httpPort int
	addr     string
	pc       net.PacketConn
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewDiscovery(ctrl Controller, httpPort int) *Discovery {
	return &Discovery{
		ctrl:     ctrl,
		httpPort: httpPort,
		addr:     fmt.Sprintf(":%d", DiscoveryPort),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start binds the discovery socket and answers probes until Close. The
// socket takes reuse-addr so a restarted instance can rebind immediately,
// and broadcast since probes arrive that way.
func (d *Discovery) Start() error {
	lc := net.ListenConfig{Control: discoverySockopts}
	pc, err := lc.ListenPacket(context.Background(), "udp4", d.addr)
	if err != nil {
		return err
	}
	d.pc = pc
	go d.serve()
	return nil
}

func (d *Discovery) serve() {
	defer close(d.done)
	buf := make([]byte, 1024)
	for {
		select {
		case <-d.quit:
			return
		default:
		}
		d.pc.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, addr, err := d.pc.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-d.quit:
			default:
				log.Printf("remote: discovery read: %v", err)
			}
			return
		}
		if strings.TrimSpace(string(buf[:n])) != discoveryMagic {
			continue
		}
		st := d.ctrl.Status()
		st.HTTPPort = d.httpPort
		reply, err := json.Marshal(st)
		if err != nil {
			continue
		}
		if _, err := d.pc.WriteTo(reply, addr); err != nil {
			log.Printf("remote: discovery reply: %v", err)
		}
	}
}

// Close stops answering and releases the socket.
func (d *Discovery) Close() {
	d.once.Do(func() {
		close(d.quit)
		if d.pc != nil {
			d.pc.Close()
			<-d.done
		}
	})
}

// LocalAddr reports the bound discovery address, nil before Start.
func (d *Discovery) LocalAddr() net.Addr {
	if d.pc == nil {
		return nil
	}
	return d.pc.LocalAddr()
}

func discoverySockopts(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if serr != nil {
			return
		}
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return serr
}

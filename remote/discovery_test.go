package remote

import (
	"encoding/json"
	"net"
	"testing"
	"time"
)

func testDiscovery(t *testing.T, ctrl Controller, httpPort int) *Discovery {
	t.Helper()
	d := NewDiscovery(ctrl, httpPort)
	d.addr = "127.0.0.1:0"
	if err := d.Start(); err != nil {
		t.Fatalf("start discovery: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func probe(t *testing.T, d *Discovery, payload string) *net.UDPConn {
	t.Helper()
	conn, err := net.Dial("udp", d.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial discovery: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("send probe: %v", err)
	}
	return conn.(*net.UDPConn)
}

func TestDiscoveryAnswersProbe(t *testing.T) {
	ctrl := &fakeController{name: "stix-test", bpm: 132, running: true}
	d := testDiscovery(t, ctrl, 8080)

	conn := probe(t, d, discoveryMagic+"\n")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}

	var st Status
	if err := json.Unmarshal(buf[:n], &st); err != nil {
		t.Fatalf("bad reply %q: %v", buf[:n], err)
	}
	want := Status{Name: "stix-test", Bpm: 132, Running: true, HTTPPort: 8080}
	if want != st {
		t.Errorf("wrong reply: want %+v, got %+v", want, st)
	}
}

func TestDiscoveryIgnoresJunk(t *testing.T) {
	ctrl := &fakeController{name: "stix-test", bpm: 100}
	d := testDiscovery(t, ctrl, 8080)

	junk := probe(t, d, "HELLO")
	junk.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	buf := make([]byte, 1024)
	if n, err := junk.Read(buf); err == nil {
		t.Fatalf("junk probe got a reply: %q", buf[:n])
	}

	// The loop must survive the junk and still answer real probes.
	conn := probe(t, d, discoveryMagic)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("probe after junk got no reply: %v", err)
	}
}

func TestDiscoveryClose(t *testing.T) {
	ctrl := &fakeController{name: "stix-test", bpm: 100}
	d := NewDiscovery(ctrl, 8080)
	d.addr = "127.0.0.1:0"
	if err := d.Start(); err != nil {
		t.Fatalf("start discovery: %v", err)
	}
	d.Close()
	d.Close() // second close must be a no-op
}

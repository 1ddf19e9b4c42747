// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"net"
	"strconv"
	"sync"
	"testing"
)

var (
	portMu    sync.Mutex
	usedPorts = make(map[int]struct{})
)

// FreeAddress returns a loopback host:port that was free when checked and has
// not been handed out to another test in this process.
func FreeAddress(t *testing.T) string {
	t.Helper()
	portMu.Lock()
	defer portMu.Unlock()

	for {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to reserve a port: %v", err)
		}
		port := l.Addr().(*net.TCPAddr).Port
		if err := l.Close(); err != nil {
			t.Fatalf("failed to release port %d: %v", port, err)
		}
		if _, taken := usedPorts[port]; taken {
			continue
		}
		usedPorts[port] = struct{}{}
		return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	}
}

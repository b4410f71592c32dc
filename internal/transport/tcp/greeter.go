package tcp

import (
	"fmt"
	"log"
	"net"
)

// Greeter accepts a single inbound TCP connection, writes one fixed line,
// and closes everything. Entirely decoupled from session state; it exists as
// a one-shot network peripheral with no invariant of its own.
type Greeter struct {
	banner   string
	listener net.Listener
}

// Listen binds the greeter. Pass addr like ":9090"; an empty port picks one,
// readable via Addr.
func Listen(addr, banner string) (*Greeter, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("greeter listen: %w", err)
	}
	return &Greeter{banner: banner, listener: listener}, nil
}

// Addr returns the bound address.
func (g *Greeter) Addr() string {
	return g.listener.Addr().String()
}

// ServeOne blocks for one connection, greets it, and shuts the listener down.
func (g *Greeter) ServeOne() error {
	defer g.listener.Close()

	conn, err := g.listener.Accept()
	if err != nil {
		return fmt.Errorf("greeter accept: %w", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, g.banner); err != nil {
		return fmt.Errorf("greeter write: %w", err)
	}
	return nil
}

// Start runs ServeOne on its own goroutine, logging any failure.
func (g *Greeter) Start() {
	go func() {
		if err := g.ServeOne(); err != nil {
			log.Printf("greeter: %v", err)
		}
	}()
}

// Close tears the listener down early; safe if ServeOne already finished.
func (g *Greeter) Close() error {
	return g.listener.Close()
}

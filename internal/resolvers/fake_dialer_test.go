package resolvers_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
)

// serverFunc plays the WHOIS server side of one connection. It receives the
// query line (without CRLF) and the server end of the pipe.
type serverFunc func(query string, conn net.Conn)

// respond returns a serverFunc that writes text and closes the connection.
func respond(text string) serverFunc {
	return func(_ string, conn net.Conn) {
		_, _ = io.WriteString(conn, text)
	}
}

// hang reads the query and then never answers; it returns once the client
// closes its end.
func hang() serverFunc {
	return func(_ string, conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	}
}

// fakeDialer serves connections from in-memory handlers keyed by address.
type fakeDialer struct {
	mu       sync.Mutex
	handlers map[string]serverFunc
	dialErrs map[string]error
	dialed   []string
	queries  []string
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		handlers: map[string]serverFunc{},
		dialErrs: map[string]error{},
	}
}

func (f *fakeDialer) handle(addr string, fn serverFunc) *fakeDialer {
	f.handlers[addr] = fn
	return f
}

func (f *fakeDialer) refuse(addr string) *fakeDialer {
	f.dialErrs[addr] = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	return f
}

func (f *fakeDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	f.mu.Lock()
	f.dialed = append(f.dialed, addr)
	fn, ok := f.handlers[addr]
	dialErr := f.dialErrs[addr]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dialErr != nil {
		return nil, dialErr
	}
	if !ok {
		return nil, &net.OpError{Op: "dial", Net: network, Err: errors.New("no such host")}
	}

	client, srv := net.Pipe()
	go func() {
		defer srv.Close()
		line, err := bufio.NewReader(srv).ReadString('\n')
		if err != nil {
			return
		}
		f.mu.Lock()
		f.queries = append(f.queries, line)
		f.mu.Unlock()
		fn(strings.TrimRight(line, "\r\n"), srv)
	}()
	return client, nil
}

func (f *fakeDialer) Dialed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dialed...)
}

func (f *fakeDialer) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

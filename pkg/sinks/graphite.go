package sinks

import (
	"bytes"
	"fmt"
	"net"
	"time"

	"github.com/juju/errors"

	"github.com/mysqlsizes/mysqlsizes/pkg/core"
)

// GraphiteSink ships points over the Graphite plaintext protocol, one
// "path value timestamp" line per point. The connection is dialed lazily
// and dropped on the first write error; the next Send redials, which
// lines up with the one-attempt-per-cycle stance of the collector.
type GraphiteSink struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
}

func NewGraphiteSink(addr string, timeout time.Duration) *GraphiteSink {
	return &GraphiteSink{addr: addr, timeout: timeout}
}

// Send writes the whole batch in one syscall.
func (s *GraphiteSink) Send(points []core.MetricPoint) error {
	if len(points) == 0 {
		return nil
	}
	if s.conn == nil {
		conn, err := net.DialTimeout("tcp", s.addr, s.timeout)
		if err != nil {
			return errors.Annotatef(err, "dial graphite %s", s.addr)
		}
		s.conn = conn
	}

	var buf bytes.Buffer
	for _, p := range points {
		fmt.Fprintf(&buf, "%s %s %d\n", p.String(), p.FormatValue(), p.Timestamp.Unix())
	}

	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return errors.Trace(err)
		}
	}
	if _, err := s.conn.Write(buf.Bytes()); err != nil {
		s.conn.Close()
		s.conn = nil
		return errors.Annotatef(err, "write %d points to graphite %s", len(points), s.addr)
	}
	return nil
}

func (s *GraphiteSink) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

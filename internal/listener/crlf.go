package listener

import (
	"bytes"
	"io"
)

// lineConn normalizes line endings on a connection. Reads turn \r\n and a
// bare \r into \n; writes turn \n into \r\n.
type lineConn struct {
	rw io.ReadWriter

	// A \r ended the previous read; a \n starting this one belongs to it.
	pendingCR bool
}

func newLineConn(rw io.ReadWriter) io.ReadWriter {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return 0, err
	}

	out := p[:0]
	for _, b := range p[:n] {
		switch {
		case b == '\n' && c.pendingCR:
			c.pendingCR = false
		case b == '\r':
			c.pendingCR = true
			out = append(out, '\n')
		default:
			c.pendingCR = false
			out = append(out, b)
		}
	}
	return len(out), err
}

func (c *lineConn) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

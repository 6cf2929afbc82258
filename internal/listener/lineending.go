package listener

import (
	"bytes"
	"io"
)

// lineEndingReadWriter speaks CRLF to terminals and LF to the console.
// Telnet clients send "\r\n" and ssh clients without a pty send a bare "\r";
// both arrive as "\n".
type lineEndingReadWriter struct {
	rw io.ReadWriter

	// pendingCR is set when the previous read ended in '\r', so a '\n'
	// starting the next read belongs to the same line ending.
	pendingCR bool
}

func newLineEndingReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &lineEndingReadWriter{rw: rw}
}

func (l *lineEndingReadWriter) Read(p []byte) (int, error) {
	n, err := l.rw.Read(p)
	if n == 0 {
		return n, err
	}

	data := p[:n]
	if l.pendingCR && data[0] == '\n' {
		data = data[1:]
	}
	l.pendingCR = len(data) > 0 && data[len(data)-1] == '\r'

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	return copy(p, data), err
}

func (l *lineEndingReadWriter) Write(p []byte) (int, error) {
	if _, err := l.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

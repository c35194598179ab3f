package protocol

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bytedance/sonic"
)

// Server speaks the command contract over a byte stream (stdin/stdout for the plugin host).
type Server struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
	api        sonic.API
}

// NewServer creates a server around a dispatcher.
func NewServer(dispatcher *Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		dispatcher: dispatcher,
		logger:     logger,
		api:        sonic.ConfigStd,
	}
}

// Serve reads requests from r and writes one envelope per command to w until
// shutdown is received, r is exhausted, or ctx is done.
// A malformed request is answered with a failure envelope and skipped.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	frames := newFrameReader(r)
	s.logger.Info("notepad plugin started")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, err := frames.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("input closed")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req Request
		if err := s.api.Unmarshal(frame, &req); err != nil {
			s.logger.Warn("invalid request", "error", err)
			if werr := s.Write(w, fail("Invalid command: "+err.Error())); werr != nil {
				return werr
			}
			continue
		}

		for _, cmd := range req.ToolCalls {
			resp := s.dispatcher.Handle(ctx, cmd)
			if err := s.Write(w, resp); err != nil {
				return err
			}
			if cmd.Func == FuncShutdown {
				s.logger.Info("shutdown requested")
				return nil
			}
		}
	}
}

// frameReader splits a byte stream into top-level JSON values. Text outside
// any value, up to the next newline or value, is returned as its own frame so
// the caller can reject it and carry on with the next request.
type frameReader struct {
	r *bufio.Reader
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReader(r)}
}

// next returns the next frame. A value cut short by EOF is returned as is.
func (f *frameReader) next() ([]byte, error) {
	var buf []byte
	depth := 0
	inString, escaped := false, false

	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(bytes.TrimSpace(buf)) > 0 {
				return buf, nil
			}
			return nil, err
		}

		if depth == 0 {
			if b != '{' && b != '[' {
				if b == '\n' {
					if len(bytes.TrimSpace(buf)) > 0 {
						return buf, nil
					}
					buf = buf[:0]
					continue
				}
				buf = append(buf, b)
				continue
			}
			if len(bytes.TrimSpace(buf)) > 0 {
				_ = f.r.UnreadByte()
				return buf, nil
			}
			buf = buf[:0]
		}

		buf = append(buf, b)
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case inString:
		case b == '{' || b == '[':
			depth++
		case b == '}' || b == ']':
			depth--
			if depth == 0 {
				return buf, nil
			}
		}
	}
}

// Write encodes one response followed by EndMarker.
func (s *Server) Write(w io.Writer, resp Response) error {
	data, err := s.api.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		data, _ = s.api.Marshal(fail("Failed to encode response"))
	}
	data = append(data, EndMarker...)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

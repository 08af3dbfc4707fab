package pipeline

import (
	"errors"
	"io"

	"discmux/internal/services"
)

// pumpBufferSize bounds the intermediate copy buffer. A slow consumer fills
// its pipe and blocks the pump on write, propagating backpressure to the
// producer instead of buffering unbounded data.
const pumpBufferSize = 64 * 1024

// Pump copies all bytes from src to dst through a single bounded buffer and
// returns once the source signals end-of-stream. Reads block until bytes are
// available. Any I/O error on either side terminates the pump.
func Pump(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, pumpBufferSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, services.Wrap(services.ErrPump, "pipeline", "write", "sink write failed", werr)
			}
			if wn < n {
				return written, services.Wrap(services.ErrPump, "pipeline", "write", "short write to sink", io.ErrShortWrite)
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, services.Wrap(services.ErrPump, "pipeline", "read", "source read failed", rerr)
		}
	}
}

package input

import (
	"bufio"
	"context"
	"errors"
	"io"

	"daemon-hunt/internal/game"
	"daemon-hunt/internal/logger"
)

// Run reads one command per line from r and sends the parsed events to out
// until r is exhausted or ctx is done. out is closed on return. Lines that do
// not parse are logged and skipped.
func Run(ctx context.Context, r io.Reader, out chan<- game.InputEvent) error {
	defer close(out)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ev, err := Parse(sc.Text())
		if err != nil {
			if !errors.Is(err, ErrEmpty) {
				logger.Log.WithError(err).Warn("ignored input")
			}
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}

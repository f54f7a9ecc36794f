package session

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// lineSource merges the subprocess stdout and stderr into a single ordered
// stream of trimmed lines. GDB routes some confirmations to stderr for no
// documented reason; merging at this level means nothing above it has to
// know which channel a reply arrived on.
type lineSource struct {
	lines chan string

	// closed is closed when either stream reports end-of-file, which means
	// the subprocess is going away.
	closed    chan struct{}
	closeOnce sync.Once

	// done is closed by stop so a pump blocked on delivery exits instead
	// of waiting for a reader that will never come.
	done     chan struct{}
	stopOnce sync.Once

	wg sync.WaitGroup
}

func newLineSource(stdout, stderr io.Reader) *lineSource {
	src := &lineSource{
		lines:  make(chan string, 64),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	src.wg.Add(2)
	go src.pump(stdout)
	go src.pump(stderr)
	return src
}

// pump reads lines from one stream into the shared channel until EOF or
// stop.
func (src *lineSource) pump(r io.Reader) {
	defer src.wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case src.lines <- strings.TrimSpace(scanner.Text()):
		case <-src.done:
			return
		}
	}
	src.closeOnce.Do(func() { close(src.closed) })
}

// stop releases the pump goroutines. Lines already queued stay readable.
func (src *lineSource) stop() {
	src.stopOnce.Do(func() { close(src.done) })
}

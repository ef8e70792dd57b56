package session

import (
	"io"
	"time"
)

const (
	minPollSleep = 20 * time.Millisecond
	maxPollSleep = 100 * time.Millisecond
	pollStep     = 10 * time.Millisecond
)

// outputConsumer drains a child process's stdout (spec section 4.2). A
// dedicated reader goroutine performs the blocking Read calls (Go gives no
// portable non-blocking "available()" primitive on a pipe), and hands
// completed chunks to a bounded adaptive poll loop that decides how
// eagerly to check for more data and never calls observers itself — it
// hands each chunk to a work executor so the I/O path is never blocked by
// a slow callback.
type outputConsumer struct {
	reader  io.Reader
	buf     *RawBuffer
	exec    *executor
	onChunk func([]byte)

	chunks chan []byte
}

func newOutputConsumer(r io.Reader, buf *RawBuffer, exec *executor, onChunk func([]byte)) *outputConsumer {
	return &outputConsumer{
		reader:  r,
		buf:     buf,
		exec:    exec,
		onChunk: onChunk,
		chunks:  make(chan []byte, 64),
	}
}

// run starts the reader goroutine and the adaptive poll loop, and blocks
// until the stream ends. It performs one final drain after the reader
// goroutine observes EOF, per spec section 4.2.
func (c *outputConsumer) run() {
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer close(c.chunks)
		buf := make([]byte, 4096)
		for {
			n, err := c.reader.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				c.chunks <- chunk
			}
			if err != nil {
				return
			}
		}
	}()

	sleep := maxPollSleep
	for {
		timer := time.NewTimer(sleep)
		select {
		case chunk, ok := <-c.chunks:
			timer.Stop()
			if !ok {
				// Reader hit EOF/error; channel close already flushed every
				// pending chunk through this case before ok becomes false.
				return
			}
			c.deliver(chunk)
			sleep = sleep / 2
			if sleep < minPollSleep {
				sleep = minPollSleep
			}
		case <-timer.C:
			sleep += pollStep
			if sleep > maxPollSleep {
				sleep = maxPollSleep
			}
		}
	}
}

func (c *outputConsumer) deliver(chunk []byte) {
	c.buf.Append(chunk)
	c.exec.submit(func() { c.onChunk(chunk) })
}

// executor runs submitted callbacks serially on a goroutine distinct from
// any I/O critical section, so Output observers never run inside the
// poller's read/append path (spec section 4.2, "cooperative producer").
type executor struct {
	work chan func()
	stop chan struct{}
}

func newExecutor() *executor {
	e := &executor{work: make(chan func(), 256), stop: make(chan struct{})}
	go e.loop()
	return e
}

func (e *executor) loop() {
	for {
		select {
		case fn := <-e.work:
			fn()
		case <-e.stop:
			// Drain whatever was already queued before shutting down, so a
			// Terminated event fired just before Stop is never dropped.
			for {
				select {
				case fn := <-e.work:
					fn()
				default:
					return
				}
			}
		}
	}
}

func (e *executor) submit(fn func()) {
	e.work <- fn
}

func (e *executor) Stop() {
	close(e.stop)
}

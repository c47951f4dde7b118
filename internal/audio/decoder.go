// Package audio drives playback and level analysis for one stream at a
// time. No audio is decoded in-process: an external player produces the
// audible signal while an external decoder feeds raw PCM through a pipe,
// and this package supervises both, turning the PCM into a bounded
// history of loudness values for the UI.
package audio

import (
	"net/url"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/plextty/plextty/internal/config"
)

const (
	// idleSleep is how long the reader loop naps when the pipe has no
	// data. Short enough to stay responsive, long enough not to spin.
	idleSleep = 50 * time.Millisecond

	// joinWindow bounds how long Stop waits for the reader goroutine.
	// Past it the goroutine is abandoned; it exits on its own once it
	// next checks the active flag.
	joinWindow = 500 * time.Millisecond

	// restartFloor is the minimum spacing between decoder respawns, and
	// maxRestarts caps fruitless respawns per session. The decoder
	// legitimately dies (terminal signals, network blips) and is
	// replaced silently, but a stream that never yields a byte must not
	// turn into a fork loop.
	restartFloor = 500 * time.Millisecond
	maxRestarts  = 20
)

// Options configures a Decoder. The zero value is usable: ffplay/ffmpeg
// commands, no capture, discarded logs.
type Options struct {
	Commands    CommandSet
	CapturePath string // tee analyzed PCM to a WAV file when set
	Logger      zerolog.Logger
}

// Decoder is the single type callers touch: it owns the process pair, the
// reader goroutine, and the level history for the active stream.
type Decoder struct {
	mu     sync.Mutex // serializes Start/Stop/Pause/Resume
	sess   *session
	done   chan struct{}
	paused bool

	active atomic.Bool

	ring *LevelRing
	tail *pcmTail

	capture *Capture
	opts    Options
	log     zerolog.Logger
}

// New creates an idle Decoder.
func New(opts Options) *Decoder {
	if opts.Commands.Player == nil || opts.Commands.Decoder == nil {
		opts.Commands = FFmpegCommands()
	}
	return &Decoder{
		ring: NewLevelRing(config.RingCapacity),
		tail: newPCMTail(config.FFTSize * 2),
		opts: opts,
		log:  opts.Logger,
	}
}

// Start begins playback and analysis of streamURL. Any prior session is
// fully retired first (processes terminated, reader joined, history
// cleared) so callers never sequence Stop themselves. Empty inputs and
// spawn failures report false with no session left behind.
func (d *Decoder) Start(streamURL, token string) bool {
	d.Stop()

	if streamURL == "" || token == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sess := newSession(StripToken(streamURL), "X-Plex-Token: "+token+"\r\n", d.opts.Commands, d.log)
	if err := sess.start(); err != nil {
		d.log.Error().Err(err).Msg("session start failed")
		return false
	}

	if d.opts.CapturePath != "" {
		tap, err := NewCapture(d.opts.CapturePath)
		if err != nil {
			d.log.Warn().Err(err).Msg("pcm capture disabled")
		} else {
			d.capture = tap
		}
	}

	d.sess = sess
	d.paused = false
	d.done = make(chan struct{})
	d.active.Store(true)
	go d.readLoop(sess, d.capture, d.done)

	d.log.Info().Str("url", sess.url).Msg("playback started")
	return true
}

// Stop retires the current session. Idempotent, safe with nothing active,
// and bounded: every wait inside has a deadline except the post-SIGKILL
// reap, which is prompt. Afterwards Level is 0 and Samples returns zeros.
func (d *Decoder) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasActive := d.active.Swap(false)
	d.paused = false

	if wasActive && d.sess != nil {
		d.sess.terminate()

		select {
		case <-d.done:
		case <-time.After(joinWindow):
			// Reader is stuck mid-nap or mid-restart; abandon it. It
			// owns the pipe fd and closes it when it comes to.
			d.log.Warn().Msg("reader did not exit within join window")
		}
		d.sess = nil
		d.log.Info().Msg("playback stopped")
	}

	if d.capture != nil {
		if err := d.capture.Close(); err != nil {
			d.log.Warn().Err(err).Msg("closing pcm capture")
		}
		d.capture = nil
	}

	d.ring.Clear()
	d.tail.clear()
}

// Pause suspends both processes via SIGSTOP. A second Pause is a no-op
// success; with nothing active it reports false.
func (d *Decoder) Pause() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active.Load() || d.sess == nil {
		return false
	}
	if d.paused {
		return true
	}
	if !d.sess.pause() {
		return false
	}
	d.paused = true
	d.log.Debug().Msg("playback paused")
	return true
}

// Resume continues both processes via SIGCONT. A no-op when not paused.
func (d *Decoder) Resume() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active.Load() || d.sess == nil {
		return false
	}
	if !d.paused {
		return true
	}
	if !d.sess.resume() {
		return false
	}
	d.paused = false
	d.log.Debug().Msg("playback resumed")
	return true
}

// Active reports whether a session is live.
func (d *Decoder) Active() bool {
	return d.active.Load()
}

// Paused reports whether the live session is suspended.
func (d *Decoder) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Level returns the most recent loudness value in [0, 1].
func (d *Decoder) Level() float64 {
	return d.ring.Level()
}

// Samples returns the last count loudness values, oldest first,
// left-padded with zeros. Always exactly count long.
func (d *Decoder) Samples(count int) []float64 {
	return d.ring.Snapshot(count)
}

// Spectrum returns nBars frequency bars in [0, 1] computed from the most
// recent raw samples. All-zero when nothing has flowed yet.
func (d *Decoder) Spectrum(nBars int) []float64 {
	return SpectrumBars(d.tail.snapshot(config.FFTSize), nBars)
}

// readLoop consumes the decoder process's stdout until the session is
// stopped. It never issues a blocking read: no data means a short nap, so
// Stop is never stalled behind I/O.
func (d *Decoder) readLoop(sess *session, capture *Capture, done chan struct{}) {
	defer func() {
		sess.closeRead()
		close(done)
	}()

	buf := make([]byte, readChunkSize)
	acc := make([]int16, 0, config.LevelWindow)
	var lastRestart time.Time
	restarts := 0

	for d.active.Load() {
		n, err := syscall.Read(sess.readFD(), buf)

		switch {
		case err == syscall.EAGAIN:
			time.Sleep(idleSleep)

		case err != nil || n == 0:
			// EOF or read error: the decoder process is likely gone.
			// If it is and we are still live, respawn it; the player
			// keeps the audible stream going regardless.
			if !sess.decoderExited() {
				time.Sleep(idleSleep)
				continue
			}
			if !d.active.Load() {
				return
			}
			if restarts >= maxRestarts {
				d.log.Warn().Int("restarts", restarts).
					Msg("decoder keeps dying, abandoning analysis for this session")
				return
			}
			if since := time.Since(lastRestart); since < restartFloor {
				time.Sleep(restartFloor - since)
				if !d.active.Load() {
					return
				}
			}
			if err := sess.restartDecoder(); err != nil {
				d.log.Error().Err(err).Msg("decoder respawn failed")
				return
			}
			if !d.active.Load() {
				// Stop won the race and already tore the pair down;
				// the respawned decoder is ours to retire.
				sess.terminate()
				return
			}
			lastRestart = time.Now()
			restarts++

		default:
			restarts = 0
			acc = append(acc, DecodePCM(buf[:n])...)

			// A big read can cross the window more than once; batch
			// the resulting levels under one ring lock.
			var levels []float64
			for len(acc) >= config.LevelWindow {
				window := acc[:config.LevelWindow]
				levels = append(levels, Level(window))
				d.tail.append(window)
				capture.Write(window)
				acc = append(acc[:0], acc[config.LevelWindow:]...)
			}
			if len(levels) == 1 {
				d.ring.Push(levels[0])
			} else if len(levels) > 1 {
				d.ring.PushBatch(levels)
			}
		}
	}
}

// StripToken removes any X-Plex-Token query parameter. The external
// processes receive the token as a header; some decoders choke on it in
// the URL, and it keeps credentials out of process listings.
func StripToken(streamURL string) string {
	u, err := url.Parse(streamURL)
	if err != nil {
		return streamURL
	}
	q := u.Query()
	if _, ok := q["X-Plex-Token"]; !ok {
		return streamURL
	}
	q.Del("X-Plex-Token")
	u.RawQuery = q.Encode()
	return u.String()
}

// pcmTail keeps the most recent raw samples, normalized to [-1, 1], for
// the spectrum view. Same single-lock discipline as LevelRing.
type pcmTail struct {
	mu  sync.Mutex
	buf []float64
	max int
}

func newPCMTail(max int) *pcmTail {
	return &pcmTail{buf: make([]float64, 0, max), max: max}
}

func (t *pcmTail) append(samples []int16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range samples {
		t.buf = append(t.buf, float64(s)/32768.0)
	}
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
}

// snapshot returns the last count samples, zero-padded at the front.
func (t *pcmTail) snapshot(count int) []float64 {
	out := make([]float64, count)
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.buf)
	if n > count {
		n = count
	}
	copy(out[count-n:], t.buf[len(t.buf)-n:])
	return out
}

func (t *pcmTail) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = t.buf[:0]
}

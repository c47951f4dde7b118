package audio

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const (
	// gracefulWindow bounds how long a child gets to exit after SIGTERM
	// before it is killed outright.
	gracefulWindow = 2 * time.Second

	// readChunkSize is the size of one non-blocking pipe read.
	readChunkSize = 4096
)

// CommandSet builds the two external processes for a stream. The player
// produces audible output; the decoder emits raw PCM on stdout for
// analysis only. Any programs honouring this contract are interchangeable,
// and tests substitute shell stubs.
type CommandSet struct {
	Player  func(url, header string) *exec.Cmd
	Decoder func(url, header string) *exec.Cmd
}

// FFmpegCommands returns the default ffplay/ffmpeg invocations. The auth
// header rides on -headers for both; some decoders mishandle tokens left
// in the URL query string.
func FFmpegCommands() CommandSet {
	return CommandSet{
		Player: func(url, header string) *exec.Cmd {
			return exec.Command("ffplay",
				"-headers", header,
				"-nodisp",
				"-autoexit",
				"-loglevel", "quiet",
				url)
		},
		Decoder: func(url, header string) *exec.Cmd {
			return exec.Command("ffmpeg",
				"-headers", header,
				"-i", url,
				"-f", "s16le",
				"-acodec", "pcm_s16le",
				"-ar", "44100",
				"-ac", "1",
				"-loglevel", "error",
				"pipe:1")
		},
	}
}

// child wraps a started process with a channel that closes once the
// process has been reaped, so exit checks never block.
type child struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func startChild(cmd *exec.Cmd) (*child, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	c := &child{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(c.done)
	}()
	return c, nil
}

func (c *child) exited() bool {
	if c == nil {
		return true
	}
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *child) signal(sig syscall.Signal) error {
	if c == nil || c.exited() {
		return fmt.Errorf("process already exited")
	}
	return c.cmd.Process.Signal(sig)
}

// terminate implements graceful-then-forced shutdown: SIGTERM, a bounded
// wait, then SIGKILL with a blocking wait (kill delivery is prompt). A
// stopped process never handles SIGTERM, so it is continued first.
func (c *child) terminate() {
	if c == nil || c.exited() {
		return
	}

	_ = c.cmd.Process.Signal(syscall.SIGCONT)
	_ = c.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-c.done:
		return
	case <-time.After(gracefulWindow):
	}

	_ = c.cmd.Process.Kill()
	<-c.done
}

// session owns the process pair and the analysis pipe for one stream. The
// reader goroutine swaps the decoder and pipe during a respawn while the
// facade may be signalling or tearing down, so handle access goes through
// one small lock; signals and waits themselves happen outside it.
type session struct {
	url    string
	header string

	commands CommandSet

	mu      sync.Mutex
	player  *child
	decoder *child
	pipeFD  int // non-blocking read end of the decoder's stdout pipe

	log zerolog.Logger
}

func newSession(url, header string, commands CommandSet, log zerolog.Logger) *session {
	return &session{
		url:      url,
		header:   header,
		commands: commands,
		pipeFD:   -1,
		log:      log,
	}
}

// start spawns the player, then the decoder bound to a fresh pipe. On any
// failure it unwinds what it already started and returns an error; no
// partial session survives.
func (s *session) start() error {
	player, err := startChild(s.commands.Player(s.url, s.header))
	if err != nil {
		return fmt.Errorf("starting player: %w", err)
	}

	s.mu.Lock()
	s.player = player
	s.mu.Unlock()

	if err := s.spawnDecoder(); err != nil {
		player.terminate()
		s.mu.Lock()
		s.player = nil
		s.mu.Unlock()
		return err
	}
	return nil
}

// spawnDecoder creates the pipe and the decoder process writing into it.
// The read end is left non-blocking for the reader loop.
func (s *session) spawnDecoder() error {
	var p [2]int
	if err := syscall.Pipe(p[:]); err != nil {
		return fmt.Errorf("creating pipe: %w", err)
	}
	if err := syscall.SetNonblock(p[0], true); err != nil {
		syscall.Close(p[0])
		syscall.Close(p[1])
		return fmt.Errorf("marking pipe non-blocking: %w", err)
	}

	w := os.NewFile(uintptr(p[1]), "decoder-stdout")
	cmd := s.commands.Decoder(s.url, s.header)
	cmd.Stdout = w

	decoder, err := startChild(cmd)
	// The child holds its own copy of the write end either way.
	w.Close()
	if err != nil {
		syscall.Close(p[0])
		return fmt.Errorf("starting decoder: %w", err)
	}

	s.mu.Lock()
	s.decoder = decoder
	s.pipeFD = p[0]
	s.mu.Unlock()
	return nil
}

// restartDecoder replaces a dead decoder with a fresh one on a new pipe.
// The player is untouched: only the analysis path is being recovered.
func (s *session) restartDecoder() error {
	s.mu.Lock()
	if s.pipeFD >= 0 {
		syscall.Close(s.pipeFD)
		s.pipeFD = -1
	}
	s.decoder = nil
	s.mu.Unlock()

	if err := s.spawnDecoder(); err != nil {
		return err
	}
	s.log.Debug().Msg("decoder process respawned")
	return nil
}

func (s *session) readFD() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeFD
}

// closeRead releases the pipe read end. Called only by the reader
// goroutine, which owns the fd.
func (s *session) closeRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeFD >= 0 {
		syscall.Close(s.pipeFD)
		s.pipeFD = -1
	}
}

func (s *session) decoderExited() bool {
	s.mu.Lock()
	dec := s.decoder
	s.mu.Unlock()
	return dec.exited()
}

func (s *session) playerExited() bool {
	s.mu.Lock()
	p := s.player
	s.mu.Unlock()
	return p.exited()
}

func (s *session) children() (player, decoder *child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player, s.decoder
}

// pause suspends the decoder first (otherwise it races ahead and floods
// the pipe with samples the waveform would replay on resume), then the
// player. Reports whether any process was there to signal.
func (s *session) pause() bool {
	player, decoder := s.children()
	signalled := decoder.signal(syscall.SIGSTOP) == nil
	if player.signal(syscall.SIGSTOP) == nil {
		signalled = true
	}
	return signalled
}

// resume continues both processes. Order does not matter here.
func (s *session) resume() bool {
	player, decoder := s.children()
	signalled := player.signal(syscall.SIGCONT) == nil
	if decoder.signal(syscall.SIGCONT) == nil {
		signalled = true
	}
	return signalled
}

// terminate tears down both processes, decoder first. Safe to call with
// either or both already gone.
func (s *session) terminate() {
	player, decoder := s.children()
	decoder.terminate()
	player.terminate()

	s.mu.Lock()
	s.decoder = nil
	s.player = nil
	s.mu.Unlock()
}

// Package launch spawns and supervises the external emulator process. At
// most one session is active at any time; a second launch is rejected with
// ErrBusy rather than queued.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/system"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ErrBusy rejects a launch while a session is still active.
var ErrBusy = errors.New("launch session already active")

// PreconditionKind names the launch precondition that failed. Each kind is
// a distinct, user-facing failure mode.
type PreconditionKind string

const (
	PreconditionEmulator PreconditionKind = "emulator"
	PreconditionCore     PreconditionKind = "core"
	PreconditionCoreExt  PreconditionKind = "core_extension"
	PreconditionRomDir   PreconditionKind = "rom_dir"
	PreconditionRom      PreconditionKind = "rom"
)

// PreconditionError reports a failed launch precondition. No process is
// spawned when one is returned.
type PreconditionError struct {
	Kind PreconditionKind
	Path string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("launch precondition %s failed: %q", e.Kind, e.Path)
}

// Process is the supervised handle of a started emulator. Wait blocks
// until exit and returns the exit code.
type Process interface {
	Wait() (int, error)
}

// Starter spawns the emulator. Swappable so the controller can be tested
// without an emulator installed.
type Starter func(ctx context.Context, name string, args []string) (Process, error)

// Session records the single active emulator run.
type Session struct {
	Entry     model.RomEntry
	StartedAt time.Time

	done     chan struct{}
	exitCode int
}

// Wait blocks until the emulator exits and returns its exit code.
func (s *Session) Wait() int {
	<-s.done
	return s.exitCode
}

// Controller enforces the single-active-session policy and owns command
// line construction.
type Controller struct {
	emulator string
	core     string
	start    Starter
	onExit   func(entry model.RomEntry, code int)

	mu     sync.Mutex
	active *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithStarter replaces the process starter.
func WithStarter(s Starter) Option {
	return func(c *Controller) { c.start = s }
}

// WithExitCallback registers a callback invoked after every process exit,
// once the session slot has been cleared.
func WithExitCallback(fn func(entry model.RomEntry, code int)) Option {
	return func(c *Controller) { c.onExit = fn }
}

// NewController builds a controller for the configured emulator executable
// and core library.
func NewController(emulator, core string, opts ...Option) *Controller {
	c := &Controller{
		emulator: emulator,
		core:     core,
		start:    execStarter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the current session, nil when idle.
func (c *Controller) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Launch checks every precondition, spawns the emulator for the entry and
// installs the session. Returns ErrBusy while a session is active. The
// returned session is supervised asynchronously; the slot clears itself on
// process exit regardless of exit code.
func (c *Controller) Launch(ctx context.Context, desc *system.Descriptor, entry model.RomEntry) (*Session, error) {
	if err := checkPath(PreconditionEmulator, c.emulator); err != nil {
		return nil, err
	}
	if err := checkPath(PreconditionCore, c.core); err != nil {
		return nil, err
	}
	if !coreExtensionOK(c.core) {
		return nil, &PreconditionError{Kind: PreconditionCoreExt, Path: c.core}
	}
	if err := checkPath(PreconditionRomDir, desc.RomDir); err != nil {
		return nil, err
	}
	romPath := filepath.Join(desc.RomDir, filepath.FromSlash(entry.Filename))
	if err := checkPath(PreconditionRom, romPath); err != nil {
		return nil, err
	}
	romAbs, err := filepath.Abs(romPath)
	if err != nil {
		return nil, &PreconditionError{Kind: PreconditionRom, Path: romPath}
	}

	args := Arguments(c.core, desc, romAbs)

	// Check-and-set under one lock so two near-simultaneous select events
	// cannot both spawn.
	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	proc, err := c.start(ctx, c.emulator, args)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("spawn emulator: %w", err)
	}
	session := &Session{
		Entry:     entry,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	c.active = session
	c.mu.Unlock()

	logutil.GetLogger(ctx).Info("emulator launched",
		zap.String("system", entry.System),
		zap.String("rom", entry.Filename),
		zap.Strings("args", args),
	)
	go c.supervise(ctx, session, proc)
	return session, nil
}

// Arguments builds the external process argument list. The flag syntax is
// the frontend's stable contract: -L <core> [--subsystem neocd] <rom>.
func Arguments(core string, desc *system.Descriptor, romAbs string) []string {
	args := []string{"-L", core}
	if desc.RecursiveCue || strings.EqualFold(filepath.Ext(romAbs), ".cue") {
		args = append(args, "--subsystem", "neocd")
	}
	return append(args, romAbs)
}

func (c *Controller) supervise(ctx context.Context, session *Session, proc Process) {
	code, err := proc.Wait()

	c.mu.Lock()
	if c.active == session {
		c.active = nil
	}
	c.mu.Unlock()

	session.exitCode = code
	close(session.done)

	logger := logutil.GetLogger(ctx)
	switch {
	case err != nil:
		logger.Warn("emulator wait failed",
			zap.String("rom", session.Entry.Filename),
			zap.Error(err),
		)
	case code != 0:
		logger.Warn("emulator exited",
			zap.String("rom", session.Entry.Filename),
			zap.Int("code", code),
		)
	default:
		logger.Info("emulator exited",
			zap.String("rom", session.Entry.Filename),
		)
	}
	if c.onExit != nil {
		c.onExit(session.Entry, code)
	}
}

func checkPath(kind PreconditionKind, path string) error {
	if strings.TrimSpace(path) == "" {
		return &PreconditionError{Kind: kind, Path: path}
	}
	if _, err := os.Stat(path); err != nil {
		return &PreconditionError{Kind: kind, Path: path}
	}
	return nil
}

var coreExtensions = []string{".dll", ".so", ".dylib"}

func coreExtensionOK(core string) bool {
	lowered := strings.ToLower(core)
	for _, ext := range coreExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// execStarter spawns the real emulator. The process is intentionally not
// tied to ctx: there is no cancellation of an in-flight launch.
func execStarter(_ context.Context, name string, args []string) (Process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

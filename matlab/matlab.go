// Package matlab implements core.Engine by driving a MATLAB process over its
// command line interface. The engine is started with -nodesktop -nosplash and
// spoken to through stdin/stdout: every command is wrapped in a try/catch
// block that prints sentinel markers, so command completion and engine-side
// errors can be detected without parsing the scripting language itself.
//
// Workspace variables are read back by printing mat2str output and parsing it
// into a gonum matrix. Octave's CLI understands the same protocol; point
// Options.Path at an octave-cli binary to use it as a drop-in engine.
package matlab

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/hupe1980/gosimulink/core"
	"github.com/hupe1980/gosimulink/logging"
	"gonum.org/v1/gonum/mat"
)

// Compile-time assertion that the process engine satisfies the core contract.
var _ core.Engine = (*Engine)(nil)

// Options configure the MATLAB process engine.
type Options struct {
	// Path is the MATLAB executable name or absolute path. When empty the
	// executable is located on PATH under the name "matlab".
	Path string

	// Args are the process arguments. The defaults start a headless
	// interactive interpreter reading commands from stdin.
	Args []string

	// StartupTimeout bounds waiting for the interpreter to become ready.
	// MATLAB startup routinely takes tens of seconds.
	StartupTimeout time.Duration

	// QuitTimeout bounds waiting for a graceful exit before the process is
	// killed.
	QuitTimeout time.Duration

	// Logger receives eval round-trip diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine drives one MATLAB interpreter process. It is not safe for concurrent
// use; a session owns its engine exclusively and every call is a blocking
// round-trip to the process.
type Engine struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	lines      <-chan string
	readerDone <-chan struct{}
	logger     logging.Logger
	opts       Options
}

// EvalError carries an engine-side evaluation failure back to the caller with
// the message MATLAB reported, unmodified.
type EvalError struct {
	Command string
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("engine eval failed: %s (command: %s)", e.Message, e.Command)
}

// Start launches a MATLAB process and waits until its interpreter responds.
func Start(ctx context.Context, optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{
		Path:           "matlab",
		Args:           []string{"-nodesktop", "-nosplash"},
		StartupTimeout: 120 * time.Second,
		QuitTimeout:    10 * time.Second,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	path, err := exec.LookPath(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("locating engine executable %q: %w", opts.Path, err)
	}

	cmd := exec.Command(path, opts.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening engine stdin: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening engine stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting engine process: %w", err)
	}

	lines := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	e := &Engine{cmd: cmd, stdin: stdin, lines: lines, readerDone: done, logger: opts.Logger, opts: opts}

	startCtx, cancel := context.WithTimeout(ctx, opts.StartupTimeout)
	defer cancel()

	// Probe the interpreter: the first completed round-trip means the banner
	// has been flushed and the REPL is accepting commands.
	if err := e.Eval(startCtx, "1;"); err != nil {
		_ = e.Quit()
		return nil, fmt.Errorf("engine did not become ready: %w", err)
	}

	return e, nil
}

// Eval executes a textual command in the engine's workspace.
func (e *Engine) Eval(ctx context.Context, cmd string) error {
	start := time.Now()
	_, err := e.roundTrip(ctx, cmd)
	if err != nil {
		e.logger.Error("Engine eval failed", "command", cmd, "error", err)
		return err
	}
	e.logger.Debug("Engine eval completed", "command", cmd, "duration", time.Since(start))
	return nil
}

// AddPath registers a directory on the engine's search path.
func (e *Engine) AddPath(ctx context.Context, dir string) error {
	return e.Eval(ctx, fmt.Sprintf("addpath('%s');", dir))
}

// LoadSystem loads the named model into the engine.
func (e *Engine) LoadSystem(ctx context.Context, name string) error {
	return e.Eval(ctx, fmt.Sprintf("load_system('%s');", name))
}

// CloseSystem closes the named model without saving.
func (e *Engine) CloseSystem(ctx context.Context, name string) error {
	return e.Eval(ctx, fmt.Sprintf("close_system('%s', 0);", name))
}

// Workspace reads a named workspace variable as a numeric matrix.
func (e *Engine) Workspace(ctx context.Context, name string) (mat.Matrix, error) {
	values, err := e.roundTrip(ctx, printMatrixCommand(name))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("engine returned no value for %q", name)
	}
	return ParseMatrix(values[0])
}

// GetParam reads a model parameter as text.
func (e *Engine) GetParam(ctx context.Context, model, param string) (string, error) {
	values, err := e.roundTrip(ctx, printParamCommand(model, param))
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("engine returned no value for parameter %q", param)
	}
	return values[0], nil
}

// Quit terminates the engine process. A graceful exit is attempted first;
// after QuitTimeout the process is killed.
func (e *Engine) Quit() error {
	if e.cmd == nil {
		return nil
	}

	_, _ = io.WriteString(e.stdin, "quit force\n")
	_ = e.stdin.Close()

	waitErr := make(chan error, 1)
	go func() { waitErr <- e.cmd.Wait() }()

	select {
	case err := <-waitErr:
		<-e.readerDone
		e.cmd = nil
		return err
	case <-time.After(e.opts.QuitTimeout):
		_ = e.cmd.Process.Kill()
		<-waitErr
		<-e.readerDone
		e.cmd = nil
		return nil
	}
}

// roundTrip submits one wrapped command and consumes output lines until the
// completion marker, collecting any value and error marker payloads.
func (e *Engine) roundTrip(ctx context.Context, cmd string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(e.stdin, wrapCommand(cmd)+"\n"); err != nil {
		return nil, fmt.Errorf("writing to engine: %w", err)
	}

	var values []string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line, ok := <-e.lines:
			if !ok {
				return nil, fmt.Errorf("engine process closed its output stream")
			}
			switch {
			case strings.HasPrefix(line, markerError):
				msg := strings.TrimPrefix(line, markerError)
				// Drain up to the completion marker so the stream stays aligned.
				e.drain(ctx)
				return nil, &EvalError{Command: cmd, Message: msg}
			case strings.HasPrefix(line, markerValue):
				values = append(values, strings.TrimPrefix(line, markerValue))
			case strings.HasPrefix(line, markerDone):
				return values, nil
			}
		}
	}
}

func (e *Engine) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-e.lines:
			if !ok || strings.HasPrefix(line, markerDone) {
				return
			}
		}
	}
}

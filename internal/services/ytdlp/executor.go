package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// CommandError is returned when the command exits unsuccessfully. Stderr
// holds the tail of the command's error output.
type CommandError struct {
	Binary string
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Binary, e.Err, stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

const stderrTailLines = 40

// maxOutputLine bounds a single line of command output.
var maxOutputLine = 16 << 20

// scanLines forwards each line of r. When a line exceeds maxOutputLine the
// rest of r is discarded so the writer never blocks on a full pipe.
func scanLines(r io.Reader, forward func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		forward(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return &CommandError{Binary: binary, Err: fmt.Errorf("start command: %w", err)}
	}

	var (
		wg      sync.WaitGroup
		scanErr error
		once    sync.Once
		mu      sync.Mutex
		tail    []string
	)
	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		if err := scanLines(r, forward); err != nil {
			once.Do(func() { scanErr = err })
		}
	}
	keepStderr := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[len(tail)-stderrTailLines:]
		}
	}
	forwardStdout := func(line string) {
		if onStdout != nil {
			onStdout(line)
		}
	}

	wg.Add(2)
	go scan(stdout, forwardStdout)
	go scan(stderr, keepStderr)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &CommandError{Binary: binary, Err: err, Stderr: strings.Join(tail, "\n")}
	}
	return nil
}

// isNotFound reports whether err means the binary could not be started.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestScanLinesDrainsAfterOversizedLine(t *testing.T) {
	saved := maxOutputLine
	maxOutputLine = 32
	t.Cleanup(func() { maxOutputLine = saved })

	input := "first\n" + strings.Repeat("x", 200) + "\nafter\n"
	r := strings.NewReader(input)
	var lines []string
	err := scanLines(r, func(line string) { lines = append(lines, line) })
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong, got %v", err)
	}
	if len(lines) != 1 || lines[0] != "first" {
		t.Fatalf("unexpected forwarded lines %v", lines)
	}
	if r.Len() != 0 {
		t.Fatalf("expected reader to be drained, %d bytes left", r.Len())
	}
}

func TestCommandExecutorReturnsWhenOutputLineTooLong(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	saved := maxOutputLine
	maxOutputLine = 64
	t.Cleanup(func() { maxOutputLine = saved })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Enough output after the long line to overflow an undrained pipe.
	script := `head -c 200 /dev/zero | tr '\0' x; echo; i=0; while [ $i -lt 2000 ]; do echo 0123456789012345678901234567890123456789; i=$((i+1)); done; echo done >&2`
	err = commandExecutor{}.Run(ctx, sh, []string{"-c", script}, func(string) {})
	if ctx.Err() != nil {
		t.Fatal("executor did not return before the deadline")
	}
	if err == nil || !strings.Contains(err.Error(), "scan output") {
		t.Fatalf("expected scan output error, got %v", err)
	}
}

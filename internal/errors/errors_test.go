package errors

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      Validationf("title", "must not be empty"),
			expected: "Error: validation failed: title must not be empty",
		},
		{
			name:     "not found error",
			err:      HabitNotFound("h_missing"),
			expected: "Error: habit not found: h_missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "habits")
	if got != "Error: failed to load habits" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestErrorKindsMatchWithAs(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &ParseError{Source: "backup", Err: errors.New("unexpected EOF")})

	var parseErr *ParseError
	if !errors.As(wrapped, &parseErr) {
		t.Fatal("expected ParseError to be found with errors.As")
	}
	if parseErr.Unwrap() == nil {
		t.Error("ParseError should unwrap to its cause")
	}

	var formatErr *BackupFormatError
	if errors.As(wrapped, &formatErr) {
		t.Error("did not expect BackupFormatError")
	}

	err := &BackupFormatError{Missing: []string{"logs"}}
	if !strings.Contains(err.Error(), "logs") {
		t.Errorf("BackupFormatError message %q should name the missing key", err.Error())
	}

	var validationErr *ValidationError
	if !errors.As(Validationf("", "bad action"), &validationErr) {
		t.Fatal("expected ValidationError")
	}
	if validationErr.Error() != "validation failed: bad action" {
		t.Errorf("unexpected message %q", validationErr.Error())
	}
}

func TestFatalExitsInChildProcess(t *testing.T) {
	switch os.Getenv("VOIDTRACK_FATAL_CASE") {
	case "not-found":
		Fatal(HabitNotFound("h_gone"))
		return
	case "nil":
		Fatal(nil)
		os.Exit(0)
	}

	tests := []struct {
		name     string
		envCase  string
		wantCode int
		stderr   string
	}{
		{name: "error exits 1", envCase: "not-found", wantCode: 1, stderr: "Error: habit not found: h_gone"},
		{name: "nil returns", envCase: "nil", wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestFatalExitsInChildProcess$")
			cmd.Env = append(os.Environ(), "VOIDTRACK_FATAL_CASE="+tt.envCase)
			var stderr bytes.Buffer
			cmd.Stderr = &stderr

			err := cmd.Run()
			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("child process failed to run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.stderr)
			}
		})
	}
}

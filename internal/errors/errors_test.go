package errors

import (
	"fmt"
	"testing"
)

func TestCycleError(t *testing.T) {
	err := NewCycleError([]string{"a", "b", "a"})

	if !Is(err, ErrDependencyCycle) {
		t.Error("CycleError should match ErrDependencyCycle")
	}

	want := "dependency cycle detected: a -> b -> a"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var cycleErr *CycleError
	if !As(err, &cycleErr) {
		t.Fatal("As should extract *CycleError")
	}
	if len(cycleErr.Path) != 3 {
		t.Errorf("Path length = %d, want 3", len(cycleErr.Path))
	}
}

func TestCycleErrorEmptyPath(t *testing.T) {
	err := NewCycleError(nil)
	if err.Error() != "dependency cycle detected" {
		t.Errorf("Error() = %q, want bare message", err.Error())
	}
}

func TestUnknownDependencyError(t *testing.T) {
	err := NewUnknownDependencyError("deploy", "qa-signoff")

	if !Is(err, ErrUnknownDependency) {
		t.Error("should match ErrUnknownDependency")
	}

	want := `task "deploy" depends on unknown task "qa-signoff"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("duration must be positive").
		WithField("estimated_days").
		WithValue(-1.5)

	if !Is(err, ErrInvalidConfiguration) {
		t.Error("should match ErrInvalidConfiguration")
	}

	msg := err.Error()
	if msg != "invalid configuration [field=estimated_days, value=-1.5]: duration must be positive" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestConfigErrorNoContext(t *testing.T) {
	err := NewConfigError("team size must be at least 1")
	want := "invalid configuration: team size must be at least 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDeadlockError(t *testing.T) {
	err := NewDeadlockError("migrate", 5, 3)

	if !Is(err, ErrCapacityDeadlock) {
		t.Error("should match ErrCapacityDeadlock")
	}
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity = %v, want critical", err.Severity())
	}

	want := `scheduler cannot make progress: task "migrate" requires 5 units but capacity is 3`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"cycle", NewCycleError([]string{"a", "a"}), true},
		{"unknown dep", NewUnknownDependencyError("a", "b"), true},
		{"config", NewConfigError("bad"), true},
		{"deadlock", NewDeadlockError("a", 2, 1), false},
		{"plain", New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInputError(tt.err); got != tt.want {
				t.Errorf("IsInputError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NewCycleError([]string{"a", "a"})) {
		t.Error("cycle errors are user facing")
	}
	if IsUserFacing(New("internal boom")) {
		t.Error("plain errors are not user facing")
	}
	if IsUserFacing(nil) {
		t.Error("nil is not user facing")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(NewConfigError("bad")); got != SeverityWarning {
		t.Errorf("config severity = %v, want warning", got)
	}
	if got := GetSeverity(New("boom")); got != SeverityError {
		t.Errorf("plain severity = %v, want error", got)
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(NewCycleError([]string{"x", "y", "x"}), "validate project")
	if !Is(err, ErrDependencyCycle) {
		t.Error("wrapped error should still match ErrDependencyCycle")
	}

	err = Wrapf(NewConfigError("bad"), "project %q", "demo")
	if !Is(err, ErrInvalidConfiguration) {
		t.Error("wrapped error should still match ErrInvalidConfiguration")
	}
	if Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestSeverityString(t *testing.T) {
	for s, want := range map[Severity]string{
		SeverityWarning:  "warning",
		SeverityError:    "error",
		SeverityCritical: "critical",
		Severity(99):     "unknown",
	} {
		if got := fmt.Sprint(s); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", s, got, want)
		}
	}
}

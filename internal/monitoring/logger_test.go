package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestPrefixed(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})

	logf := Prefixed("tile")
	logf("saved %s", "3-0-0.png")

	// Replacing the logger afterwards still routes through the new one.
	var late []string
	SetLogger(func(format string, v ...interface{}) {
		late = append(late, fmt.Sprintf(format, v...))
	})
	logf("skipped %d", 2)

	if len(got) != 1 || got[0] != "[tile] saved 3-0-0.png" {
		t.Errorf("unexpected first message: %v", got)
	}
	if len(late) != 1 || late[0] != "[tile] skipped 2" {
		t.Errorf("unexpected late message: %v", late)
	}
}

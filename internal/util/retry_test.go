package util

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "EAGAIN (NAS mount busy)", err: syscall.EAGAIN, expected: true},
		{name: "ETIMEDOUT (SMB share stalled)", err: syscall.ETIMEDOUT, expected: true},
		{name: "ECONNRESET", err: syscall.ECONNRESET, expected: true},
		{name: "EIO", err: syscall.EIO, expected: true},
		{name: "ENOENT (missing media file, not retryable)", err: syscall.ENOENT, expected: false},
		{name: "EPERM (not retryable)", err: syscall.EPERM, expected: false},
		{name: "timeout in error message", err: errors.New("connection timeout"), expected: true},
		{name: "connection reset in message", err: errors.New("connection reset by peer"), expected: true},
		{name: "network unreachable", err: errors.New("network is unreachable"), expected: true},
		{name: "generic error (not retryable)", err: errors.New("invalid argument"), expected: false},
		{
			name:     "PathError wrapping ETIMEDOUT (stat on a NAS-mounted library)",
			err:      &os.PathError{Op: "stat", Path: "/library/track.mp3", Err: syscall.ETIMEDOUT},
			expected: true,
		},
		{
			name:     "PathError wrapping ENOENT",
			err:      &os.PathError{Op: "stat", Path: "/library/track.mp3", Err: syscall.ENOENT},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryableError(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryableError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestRetryWithBackoff_ImmediateSuccess(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 10 * time.Millisecond, MaxWait: 100 * time.Millisecond}

	result, err := RetryWithBackoff(cfg, func() (os.FileInfo, error) {
		attempts++
		return nil, nil
	}, "stat library/track.mp3")

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil FileInfo, got: %v", result)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got: %d", attempts)
	}
}

func TestRetryWithBackoff_SuccessAfterTransientStall(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 10 * time.Millisecond, MaxWait: 100 * time.Millisecond}

	result, err := RetryWithBackoff(cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", syscall.ETIMEDOUT
		}
		return "/library/track.mp3", nil
	}, "stat library/track.mp3")

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if result != "/library/track.mp3" {
		t.Errorf("expected resolved path, got: %s", result)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestRetryWithBackoff_FailsAfterMaxAttempts(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 10 * time.Millisecond, MaxWait: 100 * time.Millisecond}

	_, err := RetryWithBackoff(cfg, func() (int, error) {
		attempts++
		return 0, syscall.ETIMEDOUT
	}, "stat library/track.mp3")

	if err == nil {
		t.Error("expected error after max retries, got nil")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts (max), got: %d", attempts)
	}
}

func TestRetryWithBackoff_NonRetryableFailsImmediately(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 10 * time.Millisecond, MaxWait: 100 * time.Millisecond}

	_, err := RetryWithBackoff(cfg, func() (int, error) {
		attempts++
		return 0, syscall.ENOENT
	}, "stat library/track.mp3")

	if err == nil {
		t.Error("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt (no retry for a missing file), got: %d", attempts)
	}
}

func TestRetryWithBackoff_WaitDoublesBetweenAttempts(t *testing.T) {
	attempts := 0
	var startTimes []time.Time
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 50 * time.Millisecond, MaxWait: 500 * time.Millisecond}

	start := time.Now()
	_, err := RetryWithBackoff(cfg, func() (int, error) {
		attempts++
		startTimes = append(startTimes, time.Now())
		if attempts < 3 {
			return 0, syscall.ETIMEDOUT
		}
		return 1, nil
	}, "stat library/track.mp3")
	total := time.Since(start)

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}

	if total < 150*time.Millisecond || total > 300*time.Millisecond {
		t.Errorf("expected total wait between 150ms and 300ms (50ms + 100ms backoff), got: %v", total)
	}
	if len(startTimes) >= 2 {
		firstWait := startTimes[1].Sub(startTimes[0])
		if firstWait < 40*time.Millisecond || firstWait > 150*time.Millisecond {
			t.Logf("warning: first wait %v not close to the configured 50ms", firstWait)
		}
	}
}

func TestRetry_NoReturnValue(t *testing.T) {
	attempts := 0
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: 10 * time.Millisecond, MaxWait: 100 * time.Millisecond}

	err := Retry(cfg, func() error {
		attempts++
		if attempts < 2 {
			return syscall.ETIMEDOUT
		}
		return nil
	}, "rename catalog into place")

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got: %d", attempts)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got: %d", cfg.MaxAttempts)
	}
	if cfg.InitialWait != 100*time.Millisecond {
		t.Errorf("expected InitialWait=100ms, got: %v", cfg.InitialWait)
	}
	if cfg.MaxWait != 5*time.Second {
		t.Errorf("expected MaxWait=5s, got: %v", cfg.MaxWait)
	}
}

func TestNASRetryConfig(t *testing.T) {
	cfg := NASRetryConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got: %d", cfg.MaxAttempts)
	}
	if cfg.InitialWait != 200*time.Millisecond {
		t.Errorf("expected InitialWait=200ms, got: %v", cfg.InitialWait)
	}
	if cfg.MaxWait != 10*time.Second {
		t.Errorf("expected MaxWait=10s, got: %v", cfg.MaxWait)
	}
}

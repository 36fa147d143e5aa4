package errors

import (
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorType
	}{
		{401, ErrorTypeAuth},
		{403, ErrorTypeAuth},
		{404, ErrorTypeNotFound},
		{410, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{400, ErrorTypeClient},
		{422, ErrorTypeClient},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
	}

	for _, tt := range tests {
		err := FromStatusCode(tt.code, "boom")
		if err.Type != tt.expected {
			t.Errorf("code %d: expected type %s, got %s", tt.code, tt.expected, err.Type)
		}
		if err.Code != tt.code {
			t.Errorf("code %d: expected code preserved, got %d", tt.code, err.Code)
		}
	}
}

func TestIsPermanent(t *testing.T) {
	if !IsPermanent(FromStatusCode(404, "gone")) {
		t.Error("404 should be permanent")
	}
	if !IsPermanent(FromStatusCode(403, "forbidden")) {
		t.Error("403 should be permanent")
	}
	if !IsPermanent(FromStatusCode(429, "slow down")) {
		t.Error("429 is a client error and should be permanent")
	}
	if IsPermanent(FromStatusCode(503, "unavailable")) {
		t.Error("503 should not be permanent")
	}
	if IsPermanent(Network(fmt.Errorf("connection reset"))) {
		t.Error("network errors should not be permanent")
	}
	if IsPermanent(fmt.Errorf("plain error")) {
		t.Error("untyped errors should not be permanent")
	}
}

func TestIsPermanentWrapped(t *testing.T) {
	wrapped := fmt.Errorf("download failed: %w", FromStatusCode(404, "not found"))
	if !IsPermanent(wrapped) {
		t.Error("wrapped 404 should still be permanent")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ErrorTypeNetwork) {
		t.Error("network errors should be retryable")
	}
	if !IsRetryable(ErrorTypeServerError) {
		t.Error("server errors should be retryable")
	}
	if IsRetryable(ErrorTypeNotFound) {
		t.Error("not found should not be retryable")
	}
	if IsRetryable(ErrorTypeAuth) {
		t.Error("auth errors should not be retryable")
	}
}

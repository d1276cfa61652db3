// File: otelsupport/validate_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package otelsupport

import (
	"strings"
	"testing"
)

func TestValidateTraceID(t *testing.T) {
	if err := ValidateTraceID("4bf92f3577b34da6a3ce929d0e0e4736"); err != nil {
		t.Fatalf("expected valid trace-id to pass, got %v", err)
	}
	if err := ValidateTraceID(strings.Repeat("0", 33)); err == nil {
		t.Fatal("expected too-long trace-id to fail")
	}
	if err := ValidateTraceID(strings.Repeat("0", 32)); err == nil {
		t.Fatal("expected all-zero trace-id to fail")
	}
	if err := ValidateTraceID("not-hex-at-all-not-hex-at-all-00"); err == nil {
		t.Fatal("expected non-hex trace-id to fail")
	}
}

func TestValidateSpanID(t *testing.T) {
	if err := ValidateSpanID("00f067aa0ba902b7"); err != nil {
		t.Fatalf("expected valid span-id to pass, got %v", err)
	}
	if err := ValidateSpanID("0000000000000000"); err == nil {
		t.Fatal("expected all-zero span-id to fail")
	}
	if err := ValidateSpanID("tooshort"); err == nil {
		t.Fatal("expected malformed span-id to fail")
	}
}

func TestValidateTraceFlags(t *testing.T) {
	if err := ValidateTraceFlags(0); err != nil {
		t.Fatalf("expected 0 to be valid, got %v", err)
	}
	if err := ValidateTraceFlags(255); err != nil {
		t.Fatalf("expected 255 to be valid, got %v", err)
	}
	if err := ValidateTraceFlags(256); err == nil {
		t.Fatal("expected 256 to be rejected")
	}
	if err := ValidateTraceFlags(-1); err == nil {
		t.Fatal("expected -1 to be rejected")
	}
}

func TestValidateTraceState(t *testing.T) {
	if err := ValidateTraceState(""); err != nil {
		t.Fatalf("expected empty tracestate to be valid, got %v", err)
	}
	if err := ValidateTraceState("congo=t61rcWkgMzE"); err != nil {
		t.Fatalf("expected valid tracestate to pass, got %v", err)
	}
}

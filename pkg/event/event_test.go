package event

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseTrigger(t *testing.T) {
	for _, s := range []string{"onget", "onput", "ondelete", "ontimer"} {
		trigger, err := ParseTrigger(s)
		if err != nil {
			t.Fatalf("ParseTrigger(%q) returned error: %v", s, err)
		}
		if trigger.String() != s {
			t.Errorf("ParseTrigger(%q) = %q", s, trigger)
		}
	}

	if _, err := ParseTrigger("onread"); err == nil {
		t.Error("ParseTrigger should reject unknown triggers")
	}
	if _, err := ParseTrigger(""); err == nil {
		t.Error("ParseTrigger should reject the empty string")
	}
}

func TestTriggerMutates(t *testing.T) {
	if TriggerGet.Mutates() || TriggerTimer.Mutates() {
		t.Error("read and timer triggers must not be treated as mutations")
	}
	if !TriggerPut.Mutates() || !TriggerDelete.Mutates() {
		t.Error("put and delete triggers must be treated as mutations")
	}
}

func TestValidate(t *testing.T) {
	valid := New(TriggerGet, ObjectRef{Bucket: "docs", Key: "report.pdf"}, RequestInfo{ID: "tx-1"})
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Event)
		reason string
	}{
		{"unknown trigger", func(e *Event) { e.Trigger = "onread" }, "trigger"},
		{"empty trigger", func(e *Event) { e.Trigger = "" }, "trigger"},
		{"missing bucket", func(e *Event) { e.Object.Bucket = "" }, "bucket"},
		{"missing key", func(e *Event) { e.Object.Key = "" }, "key"},
		{"missing request", func(e *Event) { e.Request.ID = "" }, "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := New(TriggerGet, ObjectRef{Bucket: "docs", Key: "report.pdf"}, RequestInfo{ID: "tx-1"})
			tt.mutate(ev)

			err := ev.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var invalid *InvalidEventError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidEventError, got %T", err)
			}
			if !strings.Contains(invalid.Reason, tt.reason) {
				t.Errorf("reason %q does not mention %q", invalid.Reason, tt.reason)
			}
		})
	}
}

func TestDecodeWireFormat(t *testing.T) {
	const wire = `{
		"id": "7b7bdfab-1c3a-4d9e-8f2a-0f25dca0de41",
		"trigger": "onget",
		"object": {"bucket": "docs", "key": "report.pdf"},
		"request": {"id": "tx-8842", "method": "GET", "client_ip": "10.0.0.7"},
		"account": "AUTH_test",
		"occurred_at": "2026-02-11T09:30:00Z"
	}`

	ev, err := Decode(strings.NewReader(wire))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if err := ev.Validate(); err != nil {
		t.Fatalf("decoded event invalid: %v", err)
	}

	if ev.Trigger != TriggerGet {
		t.Errorf("trigger = %q, want onget", ev.Trigger)
	}
	if ev.Object.Bucket != "docs" || ev.Object.Key != "report.pdf" {
		t.Errorf("object = %+v", ev.Object)
	}
	if ev.Request.ID != "tx-8842" || ev.Request.ClientIP != "10.0.0.7" {
		t.Errorf("request = %+v", ev.Request)
	}
	if ev.Account != "AUTH_test" {
		t.Errorf("account = %q", ev.Account)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}

	var invalid *InvalidEventError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidEventError, got %T", err)
	}
}

func TestEnsureID(t *testing.T) {
	ev := &Event{Trigger: TriggerGet}
	ev.EnsureID()

	if ev.ID == uuid.Nil {
		t.Error("EnsureID did not assign an ID")
	}
	if ev.OccurredAt.IsZero() {
		t.Error("EnsureID did not assign a timestamp")
	}

	id := ev.ID
	ev.EnsureID()
	if ev.ID != id {
		t.Error("EnsureID must not replace an existing ID")
	}
}

func TestObjectRefString(t *testing.T) {
	ref := ObjectRef{Bucket: "docs", Key: "2026/report.pdf"}
	if got := ref.String(); got != "docs/2026/report.pdf" {
		t.Errorf("String() = %q", got)
	}
	if !(ObjectRef{}).IsZero() {
		t.Error("zero ObjectRef should report IsZero")
	}
}

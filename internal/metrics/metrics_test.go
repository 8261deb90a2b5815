package metrics

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	s := GetSnapshot()
	initialSent := s.Sent["pushover"]
	initialFailed := s.Failed["sms"]

	IncSent("pushover")
	IncFailed("sms")
	SetLastDispatch(time.Unix(123456789, 0))

	s2 := GetSnapshot()
	if s2.Sent["pushover"] != initialSent+1 {
		t.Fatalf("expected pushover sent to increment by 1, got %d", s2.Sent["pushover"])
	}
	if s2.Failed["sms"] != initialFailed+1 {
		t.Fatalf("expected sms failed to increment by 1, got %d", s2.Failed["sms"])
	}
	if s2.LastDispatch != 123456789 {
		t.Fatalf("expected last dispatch timestamp 123456789, got %d", s2.LastDispatch)
	}
	if s2.LastDispatchTime == "" {
		t.Fatal("expected non-empty LastDispatchTime")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := GetSnapshot()
	s.Sent["email"] = 999
	if GetSnapshot().Sent["email"] == 999 {
		t.Fatal("snapshot must not alias internal state")
	}
}

func TestPromHandler(t *testing.T) {
	if PromHandler() == nil {
		t.Fatal("PromHandler returned nil")
	}
}

func TestJSONHandler(t *testing.T) {
	if JSONHandler() == nil {
		t.Fatal("JSONHandler returned nil")
	}
}

package log

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"magictrail.dev/internal/sim/trail"
)

func TestTickLogger_WritesAndRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	now := time.Date(2025, 3, 1, 10, 59, 0, 0, time.UTC)
	l.w.SetClock(func() time.Time { return now })

	if err := l.WriteTick(trail.TickLogEntry{Day: 1, Date: "2025-03-01", Outcome: trail.OutcomeTraveled, Miles: 15}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.WriteTick(trail.TickLogEntry{Day: 2, Date: "2025-03-02", Outcome: trail.OutcomeEvent, EventID: "pothole"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := l.WriteTick(trail.TickLogEntry{Day: 3, Date: "2025-03-03", Outcome: trail.OutcomeArrived, Waypoint: "portland"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := Files(TickDir(dir), "ticks")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "ticks-2025-03-01-10.jsonl.zst" {
		t.Fatalf("unexpected files %v", files)
	}
	entries, err := ReadTicks(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 || entries[1].EventID != "pothole" || entries[2].Waypoint != "portland" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestAuditLogger(t *testing.T) {
	dir := t.TempDir()
	l := NewAuditLogger(dir)
	if err := l.WriteAudit(AuditEntry{At: time.Now().UTC(), Op: "save", Save: "save_kristin", Bytes: 812}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	files, _ := Files(filepath.Join(dir, "audit"), "audit")
	if len(files) != 1 {
		t.Fatalf("expected one audit file, got %v", files)
	}
	var got []AuditEntry
	err := ReadJSONL(files[0], func(line []byte) error {
		var e AuditEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	if err != nil || len(got) != 1 || got[0].Op != "save" || got[0].Bytes != 812 {
		t.Fatalf("unexpected audit read %+v %v", got, err)
	}
}

package catalogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func repoConfigs() string {
	return filepath.Join("..", "..", "..", "configs")
}

func TestLoad_RepoConfigs(t *testing.T) {
	c, err := Load(repoConfigs())
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if n := len(c.Route.Waypoints); n != 18 {
		t.Fatalf("expected 18 waypoints, got %d", n)
	}
	if c.Route.Waypoints[0].ID != "tigard" || c.Route.Waypoints[17].DistanceFromStart != 3200 {
		t.Fatalf("unexpected route ends: %+v %+v", c.Route.Waypoints[0], c.Route.Waypoints[17])
	}
	if len(c.Party.Members) != 3 {
		t.Fatalf("expected 3 party members, got %d", len(c.Party.Members))
	}
	for _, cat := range []string{CategoryFavorable, CategoryAdverse, CategorySpecial, CategoryLandmark} {
		if len(c.Events.Pool(cat)) == 0 {
			t.Fatalf("empty event pool %s", cat)
		}
	}
	if ev, ok := c.Events.ByID["mike-farewell"]; !ok || ev.Category != CategoryLandmark {
		t.Fatalf("expected landmark event mike-farewell, got %+v", ev)
	}
	if _, ok := c.Shop.ByID["food"]; !ok {
		t.Fatalf("missing food shop item")
	}
	if o := c.River.ByID["ferry"]; o.Cost == nil || o.Cost.Amount != 50 {
		t.Fatalf("unexpected ferry option: %+v", o)
	}
	if _, ok := c.Challenges.ByID["let-it-go"]; !ok {
		t.Fatalf("missing let-it-go challenge")
	}
	forage, ok := c.Challenges.FirstOfKind(KindForage)
	if !ok || forage.Payout == nil || forage.Payout.Resource != "food" || forage.Payout.Cap != 150 {
		t.Fatalf("unexpected forage challenge: %+v", forage)
	}
	for k, d := range c.Digests() {
		if len(d) != 64 {
			t.Fatalf("digest %s: expected sha256 hex, got %q", k, d)
		}
	}
}

// copyConfigs clones the repo config tree so a test can corrupt one file.
func copyConfigs(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	src := repoConfigs()
	err := filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, p)
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, b, 0o644)
	})
	if err != nil {
		t.Fatalf("copy configs: %v", err)
	}
	return dst
}

func TestLoad_RejectsNonIncreasingRoute(t *testing.T) {
	dir := copyConfigs(t)
	route := `{"waypoints":[
	  {"id":"a","name":"A","distance_from_start":0},
	  {"id":"b","name":"B","distance_from_start":50},
	  {"id":"c","name":"C","distance_from_start":50}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "route.json"), []byte(route), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "distance must increase") {
		t.Fatalf("expected distance error, got %v", err)
	}
}

func TestLoad_RejectsUnknownEffectKind(t *testing.T) {
	dir := copyConfigs(t)
	bad := `{"category":"favorable","events":[
	  {"id":"x","title":"X","effects":[{"kind":"teleport","amount":1}]}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "events", "favorable.json"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestLoad_RejectsDanglingLandmarkEvent(t *testing.T) {
	dir := copyConfigs(t)
	route := `{"waypoints":[
	  {"id":"a","name":"A","distance_from_start":0,"landmark_event":"nope"},
	  {"id":"b","name":"B","distance_from_start":50}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "route.json"), []byte(route), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown landmark event") {
		t.Fatalf("expected landmark event error, got %v", err)
	}
}

func TestLoad_DuplicateEventIDs(t *testing.T) {
	dir := copyConfigs(t)
	dup := `{"category":"special","events":[
	  {"id":"mac-warmth","title":"Again","effects":[]}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "events", "special.json"), []byte(dup), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoad_ForageNeedsPayout(t *testing.T) {
	dir := copyConfigs(t)
	bad := `{"id":"pride-lands-forage","kind":"forage","geometry":"forage",
	  "segments":[{"start_ms":0,"targets":[50]}]}`
	if err := os.WriteFile(filepath.Join(dir, "challenges", "pride-lands-forage.json"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "need a payout") {
		t.Fatalf("expected payout error, got %v", err)
	}
}

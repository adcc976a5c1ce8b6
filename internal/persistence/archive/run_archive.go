package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"magictrail.dev/internal/persistence/snapshot"
	"magictrail.dev/internal/sim/trail"
)

// RunMeta describes one finished run next to its final snapshot.
type RunMeta struct {
	Player       string   `json:"player"`
	Profession   string   `json:"profession"`
	Mode         string   `json:"mode"`
	Status       string   `json:"status"`
	Days         int      `json:"days"`
	Miles        int      `json:"miles"`
	Survivors    int      `json:"survivors"`
	Achievements []string `json:"achievements,omitempty"`
	Snapshot     string   `json:"snapshot"`
	CreatedAt    string   `json:"created_at"`
}

// Archive keeps finished runs under `<dataDir>/archive/<player>/<stamp>/`.
type Archive struct {
	dir string
}

func New(dataDir string) *Archive {
	return &Archive{dir: filepath.Join(dataDir, "archive")}
}

func (a *Archive) Dir() string { return a.dir }

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

func slug(name string) string {
	s := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "anonymous"
	}
	return s
}

// ArchiveRun stores a finished run. It returns archived=false for runs that
// have not ended.
func (a *Archive) ArchiveRun(s trail.Snapshot, at time.Time) (dir string, archived bool, err error) {
	if s.Mode != trail.ModeVictory && s.Mode != trail.ModeGameOver {
		return "", false, nil
	}
	dir = filepath.Join(a.dir, slug(s.Player), at.UTC().Format("20060102T150405.000"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}
	const snapName = "final.snap.zst"
	if err := snapshot.WriteFile(filepath.Join(dir, snapName), s, at); err != nil {
		return "", false, fmt.Errorf("write snapshot: %w", err)
	}

	meta := RunMeta{
		Player:       s.Player,
		Profession:   s.Profession,
		Mode:         s.Mode,
		Status:       s.Status,
		Days:         s.DaysElapsed,
		Miles:        s.Travel.DistanceTraveled,
		Survivors:    s.AliveCount(""),
		Achievements: s.Unlocked,
		Snapshot:     snapName,
		CreatedAt:    at.UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), b, 0o644); err != nil {
		return "", false, err
	}
	return dir, true, nil
}

// Runs lists archived runs, newest first.
func (a *Archive) Runs() ([]RunMeta, error) {
	paths, err := filepath.Glob(filepath.Join(a.dir, "*", "*", "meta.json"))
	if err != nil {
		return nil, err
	}
	out := make([]RunMeta, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var m RunMeta
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

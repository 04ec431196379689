package attest

import (
	"fmt"
	"sort"
	"strings"

	diffpatch "github.com/sourcegraph/go-diff-patch"
)

// Snapshot is the UCAL / non-UCAL membership of identifiers at one point
// in time.
type Snapshot struct {
	UCAL    map[string]bool
	NonUCAL map[string]bool
}

func (s Snapshot) has(id string) bool {
	return s.UCAL[id] || s.NonUCAL[id]
}

// SnapshotColumns names the four identifier columns of a comparison sheet.
type SnapshotColumns struct {
	PrevUCAL, PrevNonUCAL string
	CurUCAL, CurNonUCAL   string
}

// DefaultSnapshotColumns match the quarter-over-quarter comparison sheet.
var DefaultSnapshotColumns = SnapshotColumns{
	PrevUCAL:    "UCAL_Q1",
	PrevNonUCAL: "nonUCAL_Q1",
	CurUCAL:     "UCAL_Q2",
	CurNonUCAL:  "nonUCAL_Q2",
}

// SnapshotsFromTable reads the previous and current snapshots from four
// identifier columns. Blank cells are dropped.
func SnapshotsFromTable(t Table, cols SnapshotColumns) (prev, cur Snapshot, err error) {
	sets := make([]map[string]bool, 4)
	for i, name := range []string{cols.PrevUCAL, cols.PrevNonUCAL, cols.CurUCAL, cols.CurNonUCAL} {
		idx := t.Column(name)
		if idx < 0 {
			return Snapshot{}, Snapshot{}, fmt.Errorf("%s: column %q not found", t.Name, name)
		}
		set := make(map[string]bool)
		for _, row := range t.Rows {
			if idx >= len(row) {
				continue
			}
			if id := NormalizeKey(row[idx]); id != "" {
				set[id] = true
			}
		}
		sets[i] = set
	}
	prev = Snapshot{UCAL: sets[0], NonUCAL: sets[1]}
	cur = Snapshot{UCAL: sets[2], NonUCAL: sets[3]}
	return prev, cur, nil
}

// Changes lists how identifiers moved between two snapshots. Every list
// is sorted.
type Changes struct {
	UCALToNonUCAL  []string
	NonUCALToUCAL  []string
	UCALRemoved    []string
	NonUCALRemoved []string
	UCALAdded      []string
	NonUCALAdded   []string
}

// Compare computes the changes from prev to cur. An identifier is removed
// when it is in neither current category, and added when it was in
// neither previous category.
func Compare(prev, cur Snapshot) Changes {
	return Changes{
		UCALToNonUCAL:  filter(prev.UCAL, func(id string) bool { return cur.NonUCAL[id] }),
		NonUCALToUCAL:  filter(prev.NonUCAL, func(id string) bool { return cur.UCAL[id] }),
		UCALRemoved:    filter(prev.UCAL, func(id string) bool { return !cur.has(id) }),
		NonUCALRemoved: filter(prev.NonUCAL, func(id string) bool { return !cur.has(id) }),
		UCALAdded:      filter(cur.UCAL, func(id string) bool { return !prev.has(id) }),
		NonUCALAdded:   filter(cur.NonUCAL, func(id string) bool { return !prev.has(id) }),
	}
}

func filter(set map[string]bool, keep func(string) bool) []string {
	var res []string
	for id := range set {
		if keep(id) {
			res = append(res, id)
		}
	}
	sortIDs(res)
	return res
}

// sortIDs orders numeric identifiers numerically and everything else
// lexically after them.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		an, bn := isDigits(a), isDigits(b)
		switch {
		case an && bn:
			at, bt := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
			if len(at) != len(bt) {
				return len(at) < len(bt)
			}
			if at != bt {
				return at < bt
			}
			return a < b
		case an != bn:
			return an
		default:
			return a < b
		}
	})
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.UCALToNonUCAL)+len(c.NonUCALToUCAL)+len(c.UCALRemoved)+
		len(c.NonUCALRemoved)+len(c.UCALAdded)+len(c.NonUCALAdded) == 0
}

// String renders the changes as a labeled summary.
func (c Changes) String() string {
	var b strings.Builder
	lines := []struct {
		label string
		ids   []string
	}{
		{"Moved from UCAL to non-UCAL", c.UCALToNonUCAL},
		{"Moved from non-UCAL to UCAL", c.NonUCALToUCAL},
		{"Removed from UCAL", c.UCALRemoved},
		{"Removed from non-UCAL", c.NonUCALRemoved},
		{"Added to UCAL", c.UCALAdded},
		{"Added to non-UCAL", c.NonUCALAdded},
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "%s (%d): %s\n", l.label, len(l.ids), strings.Join(l.ids, ", "))
	}
	return b.String()
}

// Patch renders the snapshot memberships as a unified diff from prev to
// cur, one "CATEGORY ID" line per member.
func Patch(name string, prev, cur Snapshot) string {
	return diffpatch.GeneratePatch(name, membership(prev), membership(cur))
}

func membership(s Snapshot) string {
	var b strings.Builder
	for _, set := range []struct {
		label string
		ids   map[string]bool
	}{
		{"UCAL", s.UCAL},
		{"non-UCAL", s.NonUCAL},
	} {
		ids := make([]string, 0, len(set.ids))
		for id := range set.ids {
			ids = append(ids, id)
		}
		sortIDs(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "%s %s\n", set.label, id)
		}
	}
	return b.String()
}

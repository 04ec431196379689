package attest

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GroupKey is the pivot row key.
type GroupKey struct {
	CIOExec  string
	TechExec string
}

type tally struct {
	total  int
	counts map[string]int
}

func newTally() *tally {
	return &tally{
		counts: make(map[string]int),
	}
}

func (t *tally) add(category string) {
	t.total++
	t.counts[category]++
}

// Pivot counts attestation records per (CIO Exec, Tech Exec) group and
// category value. A combination without records has no value, which is
// not the same thing as a zero count.
type Pivot struct {
	Category   Field
	Groups     []GroupKey
	Categories []string
	tallies    map[GroupKey]*tally
}

// NewPivot groups the records by executive pair and counts each distinct
// value of the category field. Records with a blank category are not
// counted. Groups and categories are returned in collated order.
func NewPivot(t *AttestationTable, category Field) *Pivot {
	p := &Pivot{
		Category: category,
		tallies:  make(map[GroupKey]*tally),
	}
	seen := make(map[string]bool)
	for _, rec := range t.Records {
		val := rec.Get(category)
		if val == "" {
			continue
		}
		key := GroupKey{CIOExec: rec.CIOExec, TechExec: rec.TechExec}
		tl, ok := p.tallies[key]
		if !ok {
			tl = newTally()
			p.tallies[key] = tl
			p.Groups = append(p.Groups, key)
		}
		tl.add(val)
		if !seen[val] {
			seen[val] = true
			p.Categories = append(p.Categories, val)
		}
	}

	col := collate.New(language.English, collate.Loose)
	sort.SliceStable(p.Groups, func(i, j int) bool {
		a, b := p.Groups[i], p.Groups[j]
		if c := col.CompareString(a.CIOExec, b.CIOExec); c != 0 {
			return c < 0
		}
		return col.CompareString(a.TechExec, b.TechExec) < 0
	})
	col.SortStrings(p.Categories)
	return p
}

// Count returns the number of records in the group with the category
// value. ok is false when there are none.
func (p *Pivot) Count(g GroupKey, category string) (n int, ok bool) {
	tl, found := p.tallies[g]
	if !found {
		return 0, false
	}
	n, ok = tl.counts[category]
	return n, ok
}

// Total returns the number of counted records in the group.
func (p *Pivot) Total(g GroupKey) int {
	if tl, ok := p.tallies[g]; ok {
		return tl.total
	}
	return 0
}

// CategoryTotal returns the number of counted records with the category
// value across all groups.
func (p *Pivot) CategoryTotal(category string) int {
	n := 0
	for _, tl := range p.tallies {
		n += tl.counts[category]
	}
	return n
}

func (p *Pivot) Len() int {
	return len(p.Groups)
}

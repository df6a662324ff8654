// Package lineage resolves pig pedigrees and flags inbreeding risk.
//
// Parent references are informal: a SireID or DamID may hold either the
// parent's TagID or its ID, and is resolved by scanning the herd in order.
// Unresolved references are unknown ancestors, never errors.
package lineage

import (
	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// DefaultDepth is the number of generations walked on each parental line.
const DefaultDepth = 3

// Index resolves pedigree references over an in-memory herd.
type Index struct {
	pigs []models.Pig
}

// NewIndex wraps the herd. The slice is not copied.
func NewIndex(pigs []models.Pig) *Index {
	return &Index{pigs: pigs}
}

// Resolve returns the first pig whose TagID or ID equals ref.
func (ix *Index) Resolve(ref string) (models.Pig, bool) {
	if ref == "" {
		return models.Pig{}, false
	}
	for _, p := range ix.pigs {
		if p.TagID == ref || p.ID == ref {
			return p, true
		}
	}
	return models.Pig{}, false
}

// Ancestors collects the IDs of every resolved animal reachable from ref within
// depth generations, ref itself being the first generation. The walk stops on a
// branch as soon as a reference cannot be resolved; the depth bound is the only
// guard against malformed (cyclic) pedigrees.
func (ix *Index) Ancestors(ref string, depth int) map[string]struct{} {
	set := make(map[string]struct{})
	ix.collect(ref, depth, set)
	return set
}

func (ix *Index) collect(ref string, depth int, into map[string]struct{}) {
	if depth <= 0 {
		return
	}
	p, ok := ix.Resolve(ref)
	if !ok {
		return
	}
	into[p.ID] = struct{}{}
	ix.collect(p.SireID, depth-1, into)
	ix.collect(p.DamID, depth-1, into)
}

// OverlapResult is the outcome of an inbreeding check.
type OverlapResult struct {
	Risk     bool     `json:"risk"`
	Common   []string `json:"common"`
	SireLine []string `json:"sireLine"`
	DamLine  []string `json:"damLine"`
	Depth    int      `json:"depth"`
}

// CheckOverlap walks the sire and dam lines of pig independently and reports
// whether any ancestor appears on both.
func (ix *Index) CheckOverlap(pig models.Pig, depth int) OverlapResult {
	return ix.CheckPair(pig.SireID, pig.DamID, depth)
}

// CheckPair applies the overlap test to a planned mating. The candidate sire
// and dam are the first generation of their own lines.
func (ix *Index) CheckPair(sireRef, damRef string, depth int) OverlapResult {
	if depth <= 0 {
		depth = DefaultDepth
	}

	sireLine := ix.Ancestors(sireRef, depth)
	damLine := ix.Ancestors(damRef, depth)

	res := OverlapResult{
		SireLine: ix.ordered(sireLine),
		DamLine:  ix.ordered(damLine),
		Common:   []string{},
		Depth:    depth,
	}
	for _, id := range res.SireLine {
		if _, ok := damLine[id]; ok {
			res.Common = append(res.Common, id)
		}
	}
	res.Risk = len(res.Common) > 0
	return res
}

// ordered lists set members in herd order so results are deterministic.
func (ix *Index) ordered(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	seen := make(map[string]struct{}, len(set))
	for _, p := range ix.pigs {
		if _, ok := set[p.ID]; !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p.ID)
	}
	return out
}

// Node is one animal in a pedigree tree. Pig is nil when Ref could not be resolved.
type Node struct {
	Ref  string      `json:"ref"`
	Pig  *models.Pig `json:"pig,omitempty"`
	Sire *Node       `json:"sire,omitempty"`
	Dam  *Node       `json:"dam,omitempty"`
}

// Known reports whether the node resolved to a registered pig.
func (n *Node) Known() bool {
	return n != nil && n.Pig != nil
}

// Tree builds the pedigree rooted at ref. Generations beyond depth are omitted;
// empty references produce no node, unresolved ones produce an unknown leaf.
func (ix *Index) Tree(ref string, depth int) *Node {
	if ref == "" || depth < 0 {
		return nil
	}
	node := &Node{Ref: ref}
	p, ok := ix.Resolve(ref)
	if !ok {
		return node
	}
	node.Pig = &p
	if depth == 0 {
		return node
	}
	node.Sire = ix.Tree(p.SireID, depth-1)
	node.Dam = ix.Tree(p.DamID, depth-1)
	return node
}

// Offspring lists the pigs whose sire or dam reference resolves to the pig identified by ref.
func (ix *Index) Offspring(ref string) []models.Pig {
	parent, ok := ix.Resolve(ref)
	if !ok {
		return nil
	}
	var out []models.Pig
	for _, p := range ix.pigs {
		if ix.refersTo(p.SireID, parent) || ix.refersTo(p.DamID, parent) {
			out = append(out, p)
		}
	}
	return out
}

func (ix *Index) refersTo(ref string, parent models.Pig) bool {
	if ref == "" {
		return false
	}
	resolved, ok := ix.Resolve(ref)
	return ok && resolved.ID == parent.ID
}

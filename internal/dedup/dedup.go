// Package dedup clusters raw records into canonical clients by greedy
// incremental record linkage.
package dedup

import (
	"github.com/ramzilbs/radiance/internal/match"
	"github.com/ramzilbs/radiance/internal/model"
)

// Cluster merges the ordered record sequence into canonical clients.
//
// The pass is greedy and order-dependent by design: each record is scored
// against the current representative identity of every existing client and
// merged into the best-scoring one at or above threshold, otherwise it
// seeds a new client. Ties keep the earliest-created client. A merge is
// never revisited, so a pathological ordering can produce a suboptimal
// partition; with extraction order fixed, the result is deterministic.
//
// Records without any identity are dropped. O(n·k) in records and clusters.
func Cluster(records []model.RawRecord, threshold float64) []*model.CanonicalClient {
	var clients []*model.CanonicalClient

	for _, rec := range records {
		if !rec.HasIdentity() {
			continue
		}

		best := -1
		bestScore := 0.0
		for i, c := range clients {
			s := match.Score(
				match.Identity{Name: c.Name, Phone: c.Phone},
				match.Identity{Name: rec.Name, Phone: rec.Phone},
			)
			if s > bestScore {
				best, bestScore = i, s
			}
		}

		if best >= 0 && bestScore >= threshold {
			merge(clients[best], rec)
			continue
		}

		clients = append(clients, newClient(rec))
	}

	return clients
}

// newClient seeds a canonical client from its first record.
func newClient(rec model.RawRecord) *model.CanonicalClient {
	c := &model.CanonicalClient{
		Name:    rec.Name,
		Phone:   rec.Phone,
		Sources: []model.SourceRef{rec.Source},
	}
	if rec.VisitDate != nil {
		c.VisitDates = append(c.VisitDates, *rec.VisitDate)
	}
	return c
}

// merge folds a record into an existing client: the visit is appended
// (duplicates kept, each visit counts) and empty representative fields are
// backfilled from the record.
func merge(c *model.CanonicalClient, rec model.RawRecord) {
	if rec.VisitDate != nil {
		c.VisitDates = append(c.VisitDates, *rec.VisitDate)
	}
	if c.Name == "" && rec.Name != "" {
		c.Name = rec.Name
	}
	if c.Phone == "" && rec.Phone != "" {
		c.Phone = rec.Phone
	}
	c.Sources = append(c.Sources, rec.Source)
}

// FilterLoyal returns the clients with at least minVisits recorded visits.
// Pure: the input slice and its clients are not modified.
func FilterLoyal(clients []*model.CanonicalClient, minVisits int) []*model.CanonicalClient {
	var loyal []*model.CanonicalClient
	for _, c := range clients {
		if c.VisitCount() >= minVisits {
			loyal = append(loyal, c)
		}
	}
	return loyal
}

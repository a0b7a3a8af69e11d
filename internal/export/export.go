// Package export serializes the filtered client roster. Column schemas are
// fixed contracts: the standard layout mirrors what the salon staff review
// by hand, the Odoo layout matches the Odoo Contacts import template.
package export

import (
	"sort"
	"strconv"

	"github.com/ramzilbs/radiance/internal/model"
)

// LoyalTag is the tag applied to every exported contact in the Odoo layout.
const LoyalTag = "Client Fidèle"

// Standard layout columns.
var standardHeader = []string{"Nom", "Téléphone", "Nombre de séances", "Dernière séance"}

// Odoo Contacts import columns.
var odooHeader = []string{"Name", "Phone", "Tags", "Notes"}

// SortRoster orders clients for export: most visits first, then by name.
// Returns a new slice; the input is untouched.
func SortRoster(clients []*model.CanonicalClient) []*model.CanonicalClient {
	sorted := make([]*model.CanonicalClient, len(clients))
	copy(sorted, clients)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].VisitCount() != sorted[j].VisitCount() {
			return sorted[i].VisitCount() > sorted[j].VisitCount()
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

func standardRow(c *model.CanonicalClient) []string {
	last := ""
	if lv := c.LastVisit(); !lv.IsZero() {
		last = lv.Format(model.DateLayout)
	}
	return []string{c.Name, c.Phone, strconv.Itoa(c.VisitCount()), last}
}

func odooRow(c *model.CanonicalClient) []string {
	return []string{c.Name, c.Phone, LoyalTag, "Nombre de séances: " + strconv.Itoa(c.VisitCount())}
}

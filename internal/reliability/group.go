package reliability

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// GroupReports partitions reports by neighborhood. Reports with a blank
// location are kept under domain.UnknownNeighborhood. Groups come back in
// natural id order and each group keeps input order. The report slices are
// copies; callers may reuse their input afterwards.
//
// Empty input yields no groups and a CodeEmptyInput diagnostic.
func GroupReports(reports []domain.Report) ([]domain.ReportGroup, []domain.Diagnostic) {
	if len(reports) == 0 {
		return nil, []domain.Diagnostic{{
			Code:    domain.CodeEmptyInput,
			Message: "no reports supplied",
		}}
	}

	index := make(map[string]int)
	var groups []domain.ReportGroup
	unknown := 0

	for _, r := range reports {
		key := r.Location
		if key == "" {
			key = domain.UnknownNeighborhood
			unknown++
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.ReportGroup{Neighborhood: key})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return NeighborhoodLess(groups[i].Neighborhood, groups[j].Neighborhood)
	})

	var diags []domain.Diagnostic
	if unknown > 0 {
		diags = append(diags, domain.Diagnostic{
			Neighborhood: domain.UnknownNeighborhood,
			Code:         domain.CodeMissingLocation,
			Message:      fmt.Sprintf("%d reports without a location", unknown),
		})
	}
	return groups, diags
}

// NeighborhoodLess orders ids naturally: integer ids numerically and before
// any non-integer id, the rest lexicographically.
func NeighborhoodLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

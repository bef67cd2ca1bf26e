package calculator

import (
	"math"
	"sort"

	"github.com/morgween/ulu-pricing/internal/model"
)

// WorkerCount workers for a head count.
//
// First bracket whose [min,max] holds the count; below every bracket takes the lowest,
// above takes the highest. Never fewer than one worker.
func WorkerCount(matrix []model.WorkerBracket, guests float64, workerMode string) int {
	if len(matrix) == 0 {
		return 1
	}

	var selected *model.WorkerBracket
	for i := range matrix {
		lower, upper := math.Inf(-1), math.Inf(1)
		if matrix[i].MinGuests != nil && finite(*matrix[i].MinGuests) {
			lower = *matrix[i].MinGuests
		}
		if matrix[i].MaxGuests != nil && finite(*matrix[i].MaxGuests) {
			upper = *matrix[i].MaxGuests
		}
		if guests >= lower && guests <= upper {
			selected = &matrix[i]
			break
		}
	}

	if selected == nil {
		ordered := make([]model.WorkerBracket, len(matrix))
		copy(ordered, matrix)
		sort.SliceStable(ordered, func(i, j int) bool { return bracketMin(ordered[i]) < bracketMin(ordered[j]) })
		if guests < bracketMin(ordered[0]) {
			selected = &ordered[0]
		} else {
			selected = &ordered[len(ordered)-1]
		}
	}

	workers := selected.Catering
	if workerMode == string(model.MarginOurFood) {
		workers = selected.OurFood
	}
	if n := RoundCount(workers); n > 0 {
		return n
	}
	return 1
}

func bracketMin(b model.WorkerBracket) float64 {
	if b.MinGuests == nil || !finite(*b.MinGuests) {
		return 0
	}
	return *b.MinGuests
}

// ComputeStaffing workers × rate + manager bonus; income adds the flat revenue component
func ComputeStaffing(cfg *model.PricingConfig, totalGuests int, menu model.MenuMode) model.StaffingResult {
	st := cfg.Staffing
	res := model.StaffingResult{
		Workers:          WorkerCount(st.WorkerMatrix, float64(totalGuests), menu.WorkerMode()),
		WorkerRate:       NonNegative(st.WorkerRate),
		ManagerBonus:     NonNegative(st.ManagerBonus),
		RevenueComponent: NonNegative(st.RevenueComponent),
	}
	res.Cost = res.ManagerBonus + float64(res.Workers)*res.WorkerRate
	res.Income = res.Cost + res.RevenueComponent
	return res
}

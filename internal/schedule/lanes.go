package schedule

import "glancecal/internal/model"

// Pack assigns each occurrence to the lowest-indexed lane whose existing
// members it does not overlap, opening a new lane when none fits (greedy
// interval partitioning). Input order is the priority order, so callers
// pass the SelectForDay ordering. Returns the annotated occurrences and the
// number of lanes opened.
//
// Every occurrence gets the same LaneCount: the total number of lanes
// opened in this call, not a per-conflict-cluster count. Column widths stay
// stable across the whole day even when conflicts are local to a sub-range.
func Pack(occs []model.Occurrence) ([]model.Occurrence, int) {
	if len(occs) == 0 {
		return occs, 0
	}

	out := make([]model.Occurrence, len(occs))
	copy(out, occs)

	// lanes holds, per lane, the indices into out assigned so far.
	var lanes [][]int

	for i := range out {
		assigned := false
		for li, members := range lanes {
			if laneFits(out, members, out[i]) {
				out[i].LaneIndex = li
				lanes[li] = append(members, i)
				assigned = true
				break
			}
		}
		if !assigned {
			out[i].LaneIndex = len(lanes)
			lanes = append(lanes, []int{i})
		}
	}

	for i := range out {
		out[i].LaneCount = len(lanes)
	}
	return out, len(lanes)
}

// laneFits reports whether occ's render window is disjoint from every
// member of the lane. Intervals are half-open: touching endpoints do not
// conflict.
func laneFits(out []model.Occurrence, members []int, occ model.Occurrence) bool {
	for _, mi := range members {
		m := out[mi]
		if occ.RenderEnd.After(m.RenderStart) && occ.RenderStart.Before(m.RenderEnd) {
			return false
		}
	}
	return true
}

package cpu

// ComputeUtilization converts the counter movement between baseline and latest
// into half-up rounded percentages. Each category's delta saturates at zero.
// The normalizing total is the sum of the seven kernel categories, so Total
// comes out as the busy share. When nothing moved, prev is returned unchanged
// together with a zero totalDelta.
func ComputeUtilization(prev Utilization, baseline, latest Counters) (Utilization, uint64) {
	var deltas Counters
	for i := range deltas {
		if latest[i] > baseline[i] {
			deltas[i] = latest[i] - baseline[i]
		}
	}

	var totalDelta uint64
	for _, c := range Categories()[1:] {
		totalDelta += deltas[c]
	}

	if totalDelta == 0 {
		return prev, 0
	}

	var out Utilization
	for i, d := range deltas {
		out[i] = int((d*100 + totalDelta/2) / totalDelta)
	}

	return out, totalDelta
}

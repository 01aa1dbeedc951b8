package cosmic

// TimingResult is the outcome of CheckTiming.
type TimingResult struct {
	Level Level
	Kind  TagKind

	// OutOfTimeClusters counts clusters holding at least one out-of-time hit.
	OutOfTimeClusters int
}

// OutOfTime reports whether any hit fell outside the drift window.
func (r TimingResult) OutOfTime() bool {
	return r.Level == LevelOutOfTime
}

// CheckTiming flags an object whose hits leave the valid readout window
// [driftWindowTicks, 2*driftWindowTicks].
//
// The first out-of-time hit ends the scan of its own cluster only; later
// clusters are still scanned. The flag never clears once set.
func CheckTiming(clusters []Cluster, driftWindowTicks int) TimingResult {
	res := TimingResult{Level: LevelNone, Kind: TagNotTagged}
	window := float64(driftWindowTicks)

	for _, cl := range clusters {
		for _, h := range cl.Hits {
			if h.PeakTimeMinusRMS < window || h.PeakTimePlusRMS > 2*window {
				res.Level = LevelOutOfTime
				res.Kind = TagOutsideDriftPartial
				res.OutOfTimeClusters++
				break
			}
		}
	}
	return res
}

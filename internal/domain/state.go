package domain

// BuildSensorState assembles the derived sensor values for one area group
// from its already-filtered active warnings. Pure apart from the
// GeneratedAt stamp taken from the package clock.
//
// Warnings with no regions are presented with a single "Ireland" entry;
// the stored Warning values keep their empty region list, so the default
// is presentation-only.
func BuildSensorState(group AreaGroup, active []Warning) DerivedSensorState {
	presented := make([]Warning, len(active))
	types := make([]string, 0, len(active))
	regions := make([]string, 0, len(active))
	seenType := make(map[string]struct{})
	seenRegion := make(map[string]struct{})

	for i, w := range active {
		if _, ok := seenType[w.Type]; !ok {
			seenType[w.Type] = struct{}{}
			types = append(types, w.Type)
		}
		for _, r := range w.Regions {
			if _, ok := seenRegion[r]; !ok {
				seenRegion[r] = struct{}{}
				regions = append(regions, r)
			}
		}
		if len(w.Regions) == 0 {
			w.Regions = []string{"Ireland"}
		}
		presented[i] = w
	}

	return DerivedSensorState{
		Group:           group.Name,
		ActiveCount:     len(active),
		Warnings:        presented,
		HighestLevel:    HighestLevel(active),
		WarningTypes:    types,
		RegionsAffected: regions,
		GeneratedAt:     Now(),
	}
}

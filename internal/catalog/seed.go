package catalog

// Builtin returns the bundled card set, used when no database is configured
// and by cmd/load-cards as the default seed.
func Builtin() *Catalog {
	return New(BuiltinCards())
}

func BuiltinCards() []Card {
	return []Card{
		{
			ID:               "wildfire-evac",
			Title:            "Wildfire at the City Edge",
			Scenario:         "A fast-moving wildfire threatens the eastern suburbs. Evacuation routes are congested and the wind is shifting.",
			TimeLimitSeconds: 60,
			Options: []ResponseOption{
				{ID: "wildfire-evac-a", CardID: "wildfire-evac", Text: "Order immediate mandatory evacuation of all eastern districts", Stability: -1, Trust: 2, Resources: -2, Morale: -1, Readiness: 1, Score: pts(10)},
				{ID: "wildfire-evac-b", CardID: "wildfire-evac", Text: "Stage a phased evacuation starting with care homes and schools", Stability: 1, Trust: 1, Resources: -1, Morale: 0, Readiness: 1, Score: pts(15)},
				{ID: "wildfire-evac-c", CardID: "wildfire-evac", Text: "Hold position and divert all crews to a firebreak", Stability: 0, Trust: -2, Resources: 1, Morale: -1, Readiness: -1, Score: pts(-5)},
			},
		},
		{
			ID:               "grid-failure",
			Title:            "Rolling Grid Failure",
			Scenario:         "Substations are tripping across the region during a heat wave. Hospitals report generators at 40% fuel.",
			TimeLimitSeconds: 60,
			Options: []ResponseOption{
				{ID: "grid-failure-a", CardID: "grid-failure", Text: "Impose rotating blackouts and prioritize hospital feeders", Stability: 1, Trust: -1, Resources: 0, Morale: -1, Readiness: 2, Score: pts(15)},
				{ID: "grid-failure-b", CardID: "grid-failure", Text: "Buy emergency capacity from the neighboring grid at premium rates", Stability: 2, Trust: 1, Resources: -3, Morale: 1, Readiness: 0, Score: pts(5)},
			},
		},
		{
			ID:               "water-contamination",
			Title:            "Contaminated Reservoir",
			Scenario:         "Routine testing finds industrial runoff in the northern reservoir. The source is unconfirmed and media are calling.",
			TimeLimitSeconds: 45,
			Options: []ResponseOption{
				{ID: "water-contamination-a", CardID: "water-contamination", Text: "Issue a boil-water notice for the whole city now", Stability: -1, Trust: 2, Resources: -1, Morale: -1, Readiness: 1, Score: pts(10)},
				{ID: "water-contamination-b", CardID: "water-contamination", Text: "Quietly isolate the northern supply and retest before any announcement", Stability: 1, Trust: -2, Resources: 0, Morale: 0, Readiness: 0, Score: pts(-10)},
				{ID: "water-contamination-c", CardID: "water-contamination", Text: "Announce the finding and truck in bottled water for the north", Stability: 0, Trust: 1, Resources: -2, Morale: 1, Readiness: 0, Score: pts(15)},
			},
		},
		{
			ID:               "bridge-closure",
			Title:            "Cracked Bridge Pylon",
			Scenario:         "Inspectors flag a structural crack on the harbor bridge during rush hour. 40,000 vehicles cross daily.",
			TimeLimitSeconds: 45,
			Options: []ResponseOption{
				{ID: "bridge-closure-a", CardID: "bridge-closure", Text: "Close the bridge immediately and reroute through the tunnel", Stability: -2, Trust: 2, Resources: -1, Morale: -1, Readiness: 1, Score: pts(15)},
				{ID: "bridge-closure-b", CardID: "bridge-closure", Text: "Restrict to light vehicles while engineers shore the pylon", Stability: 0, Trust: 0, Resources: -1, Morale: 0, Readiness: 0, Score: pts(5)},
			},
		},
		{
			ID:               "cyber-ransom",
			Title:            "Ransomware in Dispatch",
			Scenario:         "The 911 dispatch system is encrypted by ransomware. Attackers demand payment in six hours.",
			TimeLimitSeconds: 60,
			Options: []ResponseOption{
				{ID: "cyber-ransom-a", CardID: "cyber-ransom", Text: "Refuse to pay, fail over to radio dispatch, call federal support", Stability: -1, Trust: 1, Resources: -1, Morale: 1, Readiness: 2, Score: pts(15)},
				{ID: "cyber-ransom-b", CardID: "cyber-ransom", Text: "Pay the ransom to restore dispatch quickly", Stability: 1, Trust: -2, Resources: -3, Morale: -1, Readiness: -1, Score: pts(-15)},
				{ID: "cyber-ransom-c", CardID: "cyber-ransom", Text: "Stall negotiations while restoring from last week's backups", Stability: 0, Trust: 0, Resources: -1, Morale: 0, Readiness: 1, Score: pts(10)},
			},
		},
		{
			ID:               "chemical-spill",
			Title:            "Tanker Spill on the Interstate",
			Scenario:         "An overturned tanker is leaking chlorine near a residential exit. Plume models disagree on drift direction.",
			TimeLimitSeconds: 45,
			Options: []ResponseOption{
				{ID: "chemical-spill-a", CardID: "chemical-spill", Text: "Shelter-in-place order for a two-mile radius", Stability: 1, Trust: 0, Resources: 0, Morale: -1, Readiness: 1, Score: pts(10)},
				{ID: "chemical-spill-b", CardID: "chemical-spill", Text: "Evacuate downwind neighborhoods based on the worst-case model", Stability: -1, Trust: 1, Resources: -2, Morale: -1, Readiness: 1, Score: pts(15)},
			},
		},
		{
			ID:               "flood-levee",
			Title:            "Levee Overtopping",
			Scenario:         "The river crests two feet above forecast. Sandbag crews are exhausted and a levee section is seeping.",
			TimeLimitSeconds: 60,
			Options: []ResponseOption{
				{ID: "flood-levee-a", CardID: "flood-levee", Text: "Concede the floodplain and move crews to protect the hospital district", Stability: 0, Trust: -1, Resources: 1, Morale: -1, Readiness: 2, Score: pts(10)},
				{ID: "flood-levee-b", CardID: "flood-levee", Text: "Call in volunteers and national guard to hold the full levee line", Stability: 1, Trust: 2, Resources: -2, Morale: 2, Readiness: -1, Score: pts(15)},
				{ID: "flood-levee-c", CardID: "flood-levee", Text: "Breach the levee upstream to relieve pressure on the city reach", Stability: -2, Trust: -1, Resources: 0, Morale: -2, Readiness: 1, Score: pts(-5)},
			},
		},
		{
			ID:               "stadium-crush",
			Title:            "Crowd Surge at the Stadium",
			Scenario:         "Gates opened late and a crowd surge is building at the north entrance. Medics report crush injuries.",
			TimeLimitSeconds: 30,
			Options: []ResponseOption{
				{ID: "stadium-crush-a", CardID: "stadium-crush", Text: "Open all gates and delay kickoff", Stability: 1, Trust: 1, Resources: -1, Morale: 0, Readiness: 0, Score: pts(15)},
				{ID: "stadium-crush-b", CardID: "stadium-crush", Text: "Hold the perimeter and extract the injured through service corridors", Stability: 0, Trust: -1, Resources: 0, Morale: -2, Readiness: 1, Score: pts(-5)},
			},
		},
	}
}

func pts(n int) *int {
	return &n
}

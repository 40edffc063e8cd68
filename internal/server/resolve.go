package server

import (
	"crisis-response/internal/catalog"
)

// teamOutcome reports what round resolution did for one team. Outcomes feed
// the persistence mirror and the event log; they carry no authority of their
// own.
type teamOutcome struct {
	Team        string
	LeaderID    int
	NewLeaderID int
	OptionID    string
	Score       int
	Scored      bool
	Fallback    bool
	Initialized bool
	Skipped     string
}

type teamPlan struct {
	members     []*Player
	leaderIdx   int
	newLeader   int
	option      string
	score       int
	scored      bool
	fallback    bool
	initialized bool
	skipped     string
}

// resolveRound computes and applies the outcome of the round for
// finishedCardID: resolves each team leader's binding response (falling back
// to a uniformly random option when the leader never submitted), applies the
// response's score to every member of the leader's team, and rotates
// leadership in join order.
//
// Must be called with the session lock held. Validation runs for all teams
// before any mutation, so a data-integrity failure leaves the session
// untouched. pick selects the fallback option index and is injectable for
// deterministic tests.
func resolveRound(session *Session, cat *catalog.Catalog, finishedCardID string, pick func(n int) int) ([]teamOutcome, error) {
	plans := make(map[string]*teamPlan, 2)
	for _, team := range []string{teamRed, teamBlue} {
		plan, err := planTeam(session, cat, finishedCardID, team, pick)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			plans[team] = plan
		}
	}

	outcomes := make([]teamOutcome, 0, len(plans))
	for _, team := range []string{teamRed, teamBlue} {
		plan, ok := plans[team]
		if !ok {
			continue
		}
		outcomes = append(outcomes, applyTeam(session, finishedCardID, team, plan))
	}
	return outcomes, nil
}

func planTeam(session *Session, cat *catalog.Catalog, cardID, team string, pick func(n int) int) (*teamPlan, error) {
	members := teamMembers(session, team)
	if len(members) == 0 {
		return nil, nil
	}
	plan := &teamPlan{members: members}

	index, err := leaderIndex(members)
	if err != nil {
		return nil, err
	}
	plan.leaderIdx = index
	if index < 0 {
		// No leader yet: this call initializes leadership and skips scoring.
		plan.initialized = true
		plan.newLeader = members[0].ID
		return plan, nil
	}

	leader := members[index]
	card, cardFound := cat.Get(cardID)

	entry, hasEntry := findResponse(session, leader.ID, cardID)
	switch {
	case hasEntry:
		plan.option = entry.OptionID
	case !cardFound:
		plan.skipped = "card missing from catalog"
	case len(card.Options) == 0:
		plan.skipped = "card has no response options"
	default:
		plan.option = card.Options[pick(len(card.Options))].ID
		plan.fallback = true
	}

	if plan.option != "" && cardFound {
		for _, option := range card.Options {
			if option.ID != plan.option {
				continue
			}
			if option.Score != nil {
				plan.score = *option.Score
				plan.scored = true
			}
			break
		}
	}

	// Rotation happens whether or not a response was resolved; a single-member
	// team keeps its leader.
	plan.newLeader = members[(index+1)%len(members)].ID
	return plan, nil
}

func applyTeam(session *Session, cardID, team string, plan *teamPlan) teamOutcome {
	outcome := teamOutcome{
		Team:        team,
		NewLeaderID: plan.newLeader,
		OptionID:    plan.option,
		Score:       plan.score,
		Scored:      plan.scored,
		Fallback:    plan.fallback,
		Initialized: plan.initialized,
		Skipped:     plan.skipped,
	}

	if plan.initialized {
		for _, member := range plan.members {
			member.IsLeader = member.ID == plan.newLeader
		}
		return outcome
	}

	leader := plan.members[plan.leaderIdx]
	outcome.LeaderID = leader.ID

	if plan.fallback {
		// Idempotent by construction: planTeam only falls back when no entry
		// exists, and the session lock excludes concurrent resolutions.
		session.Responses = append(session.Responses, ResponseEntry{
			PlayerID: leader.ID,
			CardID:   cardID,
			OptionID: plan.option,
			Auto:     true,
		})
	}

	if plan.scored {
		for _, member := range plan.members {
			member.Score += plan.score
		}
	}

	for _, member := range plan.members {
		member.IsLeader = member.ID == plan.newLeader
	}
	return outcome
}

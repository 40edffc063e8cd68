package server

import "sort"

// teamMembers returns pointers to the session's players on one team, ordered
// by join time. This ordering is the leadership-rotation contract: it must be
// stable across calls, and players joining mid-game append after existing
// members. Ties on the timestamp fall back to player ID, which is assigned in
// join order.
func teamMembers(session *Session, team string) []*Player {
	members := make([]*Player, 0, len(session.Players))
	for i := range session.Players {
		if session.Players[i].Team == team {
			members = append(members, &session.Players[i])
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].ID < members[j].ID
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members
}

// leaderIndex locates the unique leader among members. Returns -1 when the
// team has none yet; two or more leaders is a data-integrity violation.
func leaderIndex(members []*Player) (int, error) {
	index := -1
	for i, member := range members {
		if !member.IsLeader {
			continue
		}
		if index >= 0 {
			return -1, ErrLeaderConflict
		}
		index = i
	}
	return index, nil
}

// initializeLeaders promotes the first joiner of each non-empty team that has
// no leader yet. Called when a session starts.
func initializeLeaders(session *Session) error {
	for _, team := range []string{teamRed, teamBlue} {
		members := teamMembers(session, team)
		if len(members) == 0 {
			continue
		}
		index, err := leaderIndex(members)
		if err != nil {
			return err
		}
		if index < 0 {
			members[0].IsLeader = true
		}
	}
	return nil
}

func findPlayer(session *Session, playerID int) (*Player, bool) {
	for i := range session.Players {
		if session.Players[i].ID == playerID {
			return &session.Players[i], true
		}
	}
	return nil, false
}

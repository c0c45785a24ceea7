package combat

// AutoResolve plays s to completion, choosing AutoPick(s.Actions) every round.
//
// Postcondition: a terminal s is returned unchanged with no rounds. Otherwise
// the returned state is terminal with AutoPilot set, and rounds holds one
// entry per resolved round in order.
func AutoResolve(s FightState, playerLevel int, robotName string) (FightState, []RoundResult) {
	var rounds []RoundResult
	for !s.Result.Terminal() {
		res := ResolveRound(s, AutoPick(s.Actions), playerLevel, robotName)
		res.State.AutoPilot = true
		rounds = append(rounds, res)
		s = res.State
	}
	return s, rounds
}

// LastRound returns the turns of the most recently resolved round, so a
// finished fight can report its closing exchange again. Both turns are nil
// before the first round.
func (s FightState) LastRound() RoundResult {
	res := RoundResult{State: s}
	for i := len(s.Turns) - 1; i >= 0; i-- {
		t := s.Turns[i]
		if (t.Number+1)/2 != s.Round {
			break
		}
		if t.Attacker == SidePlayer {
			res.PlayerTurn = &t
		} else {
			res.EnemyTurn = &t
		}
	}
	return res
}

package engine

// IsMyTurn is the single turn-ownership predicate. It is false outside the
// playing phase, false while no turn is set, and false when either id fails
// numeric parsing; otherwise it compares the ids as numbers so that a
// string/number representation mismatch can never grant or deny a turn.
func IsMyTurn(s State) bool {
	if s.Phase != PhasePlaying {
		return false
	}
	if s.CurrentTurn.IsZero() {
		return false
	}
	return s.CurrentTurn.EqualNumeric(s.SelfID)
}

// CurrentPlayer resolves the roster entry whose turn it is.
func CurrentPlayer(s State) (Player, bool) {
	if s.CurrentTurn.IsZero() {
		return Player{}, false
	}
	return FindPlayer(s, s.CurrentTurn)
}

package domain

// transitions is the legal state-transition table. A submission starts in
// SubmissionStateWaiting and only leaves SubmissionStateFinalized through
// an administrative rollback. The AwaitingPeer edges cover rows carrying
// that state even though routing parks below-quota peer submissions in
// SubmissionStateWaiting.
var transitions = map[SubmissionState][]SubmissionState{
	SubmissionStateWaiting:      {SubmissionStateBeingGraded},
	SubmissionStateBeingGraded:  {SubmissionStateWaiting, SubmissionStateAwaitingPeer, SubmissionStateFinalized},
	SubmissionStateAwaitingPeer: {SubmissionStateWaiting, SubmissionStateFinalized},
	SubmissionStateFinalized:    {SubmissionStateWaiting},
}

// CanTransition reports whether moving from one submission state to
// another is legal. The Finalized -> Waiting edge exists only for the
// rollback operation.
func CanTransition(from, to SubmissionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

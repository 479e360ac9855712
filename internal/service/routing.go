package service

import "grading_service/internal/domain"

// RouteOutcome is where a submission goes after a grade is recorded.
type RouteOutcome struct {
	State          domain.SubmissionState
	NextGraderType domain.GraderType
	Finalized      bool
}

type routeKey struct {
	graderType domain.GraderType
	status     domain.GraderStatus
}

type routeRule struct {
	// finalize closes the submission unconditionally.
	finalize bool
	// peerQuota closes the submission once the successful peer-review
	// count reaches the policy's requirement, otherwise returns it to the
	// waiting pool.
	peerQuota bool
	next      domain.GraderType
}

// RoutingPolicy is the {grader type, status} -> next step table consumed
// by the grade recorder. Keeping it as data means routing changes never
// touch the state machine.
type RoutingPolicy struct {
	RequiredPeerGrades int
	rules              map[routeKey]routeRule
}

func NewRoutingPolicy(requiredPeerGrades int) RoutingPolicy {
	return RoutingPolicy{
		RequiredPeerGrades: requiredPeerGrades,
		rules: map[routeKey]routeRule{
			{domain.GraderTypeML, domain.GraderStatusSuccess}:         {finalize: true, next: domain.GraderTypeML},
			{domain.GraderTypeInstructor, domain.GraderStatusSuccess}: {finalize: true, next: domain.GraderTypeInstructor},
			{domain.GraderTypePeer, domain.GraderStatusSuccess}:       {peerQuota: true, next: domain.GraderTypePeer},
			{domain.GraderTypeBackupPeer, domain.GraderStatusSuccess}: {peerQuota: true, next: domain.GraderTypePeer},

			// Failures re-queue to the same stage.
			{domain.GraderTypeML, domain.GraderStatusFailure}:         {next: domain.GraderTypeML},
			{domain.GraderTypeInstructor, domain.GraderStatusFailure}: {next: domain.GraderTypeInstructor},
			{domain.GraderTypePeer, domain.GraderStatusFailure}:       {next: domain.GraderTypePeer},
			{domain.GraderTypeBackupPeer, domain.GraderStatusFailure}: {next: domain.GraderTypePeer},
		},
	}
}

// Route decides the submission's next state given the grade just recorded
// and the current count of successful peer reviews (including it).
func (p RoutingPolicy) Route(graderType domain.GraderType, status domain.GraderStatus, successfulPeerGrades int) RouteOutcome {
	rule, ok := p.rules[routeKey{graderType, status}]
	if !ok {
		// Unknown combination: back to the pool for the same stage.
		return RouteOutcome{State: domain.SubmissionStateWaiting, NextGraderType: graderType}
	}

	if rule.finalize || (rule.peerQuota && successfulPeerGrades >= p.RequiredPeerGrades) {
		return RouteOutcome{
			State:          domain.SubmissionStateFinalized,
			NextGraderType: rule.next,
			Finalized:      true,
		}
	}

	return RouteOutcome{State: domain.SubmissionStateWaiting, NextGraderType: rule.next}
}

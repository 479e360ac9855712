package domain

// SubmissionState is stored as a single-letter column value.
type SubmissionState string

const (
	SubmissionStateUnspecified SubmissionState = ""
	SubmissionStateWaiting     SubmissionState = "W"
	SubmissionStateBeingGraded SubmissionState = "C"
	// AwaitingPeer is accepted when reading rows but the routing policy
	// re-queues below-quota peer submissions via Waiting; no code path
	// writes it.
	SubmissionStateAwaitingPeer SubmissionState = "G"
	SubmissionStateFinalized    SubmissionState = "F"
)

func (s SubmissionState) IsValid() bool {
	switch s {
	case SubmissionStateWaiting, SubmissionStateBeingGraded,
		SubmissionStateAwaitingPeer, SubmissionStateFinalized:
		return true
	default:
		return false
	}
}

func ToSubmissionState(state string) SubmissionState {
	switch state {
	case "W":
		return SubmissionStateWaiting
	case "C":
		return SubmissionStateBeingGraded
	case "G":
		return SubmissionStateAwaitingPeer
	case "F":
		return SubmissionStateFinalized
	default:
		return SubmissionStateUnspecified
	}
}

// GraderType is the category of grading pass.
type GraderType string

const (
	GraderTypeUnspecified GraderType = ""
	GraderTypeML          GraderType = "ML"
	GraderTypeInstructor  GraderType = "IN"
	GraderTypePeer        GraderType = "PE"
	GraderTypeBackupPeer  GraderType = "BC"
)

func (t GraderType) IsValid() bool {
	switch t {
	case GraderTypeML, GraderTypeInstructor, GraderTypePeer, GraderTypeBackupPeer:
		return true
	default:
		return false
	}
}

// CanFinalize reports whether a successful grade from this grader type
// closes the submission on its own.
func (t GraderType) CanFinalize() bool {
	return t == GraderTypeInstructor || t == GraderTypeML
}

// IsPeer reports whether grades from this type count toward the peer
// review quota.
func (t GraderType) IsPeer() bool {
	return t == GraderTypePeer || t == GraderTypeBackupPeer
}

func ToGraderType(graderType string) GraderType {
	switch graderType {
	case "ML":
		return GraderTypeML
	case "IN":
		return GraderTypeInstructor
	case "PE":
		return GraderTypePeer
	case "BC":
		return GraderTypeBackupPeer
	default:
		return GraderTypeUnspecified
	}
}

// GraderStatus marks a grading attempt as successful or failed.
type GraderStatus string

const (
	GraderStatusUnspecified GraderStatus = ""
	GraderStatusSuccess     GraderStatus = "S"
	GraderStatusFailure     GraderStatus = "F"
)

func (s GraderStatus) IsValid() bool {
	return s == GraderStatusSuccess || s == GraderStatusFailure
}

func ToGraderStatus(status string) GraderStatus {
	switch status {
	case "S":
		return GraderStatusSuccess
	case "F":
		return GraderStatusFailure
	default:
		return GraderStatusUnspecified
	}
}

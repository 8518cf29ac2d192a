package workflow

// Status is the review status of a workflow-managed document
// (quotation, RFQ). The same ladder applies to both.
type Status string

const (
	StatusDraft                      Status = "DRAFT"
	StatusPendingArtisanReview       Status = "PENDING_ARTISAN_REVIEW"
	StatusInProgress                 Status = "IN_PROGRESS"
	StatusPendingJuniorManagerReview Status = "PENDING_JUNIOR_MANAGER_REVIEW"
	StatusPendingSeniorManagerReview Status = "PENDING_SENIOR_MANAGER_REVIEW"
	StatusApproved                   Status = "APPROVED"
	StatusSentToCustomer             Status = "SENT_TO_CUSTOMER"
	StatusRejected                   Status = "REJECTED"
)

// AllStatuses lists every valid document status.
var AllStatuses = []Status{
	StatusDraft,
	StatusPendingArtisanReview,
	StatusInProgress,
	StatusPendingJuniorManagerReview,
	StatusPendingSeniorManagerReview,
	StatusApproved,
	StatusSentToCustomer,
	StatusRejected,
}

var validStatuses = map[Status]bool{
	StatusDraft:                      true,
	StatusPendingArtisanReview:       true,
	StatusInProgress:                 true,
	StatusPendingJuniorManagerReview: true,
	StatusPendingSeniorManagerReview: true,
	StatusApproved:                   true,
	StatusSentToCustomer:             true,
	StatusRejected:                   true,
}

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the status is one of the enumerated values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusSentToCustomer
}

// Role is the acting role requesting a transition.
type Role string

const (
	RoleContractor    Role = "CONTRACTOR"
	RoleJuniorManager Role = "CONTRACTOR_JUNIOR_MANAGER"
	RoleSeniorManager Role = "CONTRACTOR_SENIOR_MANAGER"
	RoleArtisan       Role = "CONTRACTOR_ARTISAN"
)

// canReviewJunior reports whether the role may act on documents waiting
// at the junior manager stage. The contractor owner acts as a super-role
// covering both manager stages.
func (r Role) canReviewJunior() bool {
	return r == RoleJuniorManager || r == RoleSeniorManager || r == RoleContractor
}

// canReviewSenior reports whether the role may act on documents waiting
// at the senior manager stage.
func (r Role) canReviewSenior() bool {
	return r == RoleSeniorManager || r == RoleContractor
}

// ungatedTransitions are the edges any role may take. The two manager
// review stages are handled separately because they are role-gated.
var ungatedTransitions = map[Status][]Status{
	StatusDraft:                {StatusPendingArtisanReview},
	StatusPendingArtisanReview: {StatusInProgress, StatusDraft},
	StatusInProgress:           {StatusPendingJuniorManagerReview, StatusPendingArtisanReview},
	StatusApproved:             {StatusSentToCustomer},
	StatusSentToCustomer:       nil,
	StatusRejected:             {StatusDraft},
}

// AllowedTransitions returns the set of statuses the given role may move
// a document into from the current status. It is a total function: every
// (status, role) pair has an answer, possibly empty. Unknown statuses
// yield the empty set.
func AllowedTransitions(current Status, role Role) []Status {
	switch current {
	case StatusPendingJuniorManagerReview:
		if !role.canReviewJunior() {
			return nil
		}
		return []Status{StatusPendingSeniorManagerReview, StatusRejected, StatusInProgress}
	case StatusPendingSeniorManagerReview:
		if !role.canReviewSenior() {
			return nil
		}
		return []Status{StatusApproved, StatusRejected, StatusPendingJuniorManagerReview}
	default:
		targets := ungatedTransitions[current]
		out := make([]Status, len(targets))
		copy(out, targets)
		return out
	}
}

// CanTransition reports whether the role may move a document from
// current to target in one step.
func CanTransition(current, target Status, role Role) bool {
	for _, allowed := range AllowedTransitions(current, role) {
		if allowed == target {
			return true
		}
	}
	return false
}

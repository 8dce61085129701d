package store

// Default per-tier quotas applied when a user has never set preferences.
const (
	DefaultEasyQuota   = 3
	DefaultMediumQuota = 2
	DefaultHardQuota   = 1

	// QuotaMin and QuotaMax bound every per-tier quota value.
	QuotaMin = 0
	QuotaMax = 5
)

// OperationKind is the kind of a progress toggle operation.
type OperationKind string

const (
	OperationStar     OperationKind = "star"
	OperationComplete OperationKind = "complete"
)

func (k OperationKind) IsValid() bool {
	return k == OperationStar || k == OperationComplete
}

// ProgressOperation is a single star/complete toggle with its desired end state.
type ProgressOperation struct {
	QuestionID string
	Kind       OperationKind
	Value      bool
}

// ProgressRecord holds one user's completed/starred sets and quota preferences.
// Quotas are pointers: nil means "never set", which resolves to the defaults.
// A stored zero is a legitimate value and must never be coerced to a default.
type ProgressRecord struct {
	UserID               string
	CompletedQuestionIDs []string
	StarredQuestionIDs   []string
	EasyQuota            *int
	MediumQuota          *int
	HardQuota            *int
	CreatedTs            int64
	UpdatedTs            int64
}

// Quotas resolves the effective per-tier quotas using presence checks.
func (r *ProgressRecord) Quotas() (easy, medium, hard int) {
	easy, medium, hard = DefaultEasyQuota, DefaultMediumQuota, DefaultHardQuota
	if r.EasyQuota != nil {
		easy = *r.EasyQuota
	}
	if r.MediumQuota != nil {
		medium = *r.MediumQuota
	}
	if r.HardQuota != nil {
		hard = *r.HardQuota
	}
	return easy, medium, hard
}

// QuotaFor returns the effective quota for one tier.
func (r *ProgressRecord) QuotaFor(d Difficulty) int {
	easy, medium, hard := r.Quotas()
	switch d {
	case Medium:
		return medium
	case Hard:
		return hard
	default:
		return easy
	}
}

// FindProgressRecord specifies the conditions for finding a progress record.
type FindProgressRecord struct {
	UserID *string
}

// UpdateProgressRecord specifies the data for updating a progress record.
// Nil fields are left untouched. ID sets are replaced wholesale.
type UpdateProgressRecord struct {
	UserID               string
	CompletedQuestionIDs *[]string
	StarredQuestionIDs   *[]string
	EasyQuota            *int
	MediumQuota          *int
	HardQuota            *int
}

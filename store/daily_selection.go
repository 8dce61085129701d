package store

// DailySelection is one user's cached daily question set.
// It is replaced wholesale on regeneration, never patched in place.
type DailySelection struct {
	UserID      string
	QuestionIDs []string
	UpdatedTs   int64
}

// FindDailySelection specifies the conditions for finding a daily selection.
type FindDailySelection struct {
	UserID *string
}

// UpsertDailySelection specifies the data for upserting a daily selection.
type UpsertDailySelection struct {
	UserID      string
	QuestionIDs []string
	UpdatedTs   int64
}

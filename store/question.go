package store

// Difficulty is the difficulty tier of a question.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists all tiers in selection order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) IsValid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Question represents one practice problem in the catalog.
// The catalog is immutable from the engine's perspective.
type Question struct {
	ID string
	// QuestionID is the upstream problem number, e.g. "217".
	QuestionID string
	Title      string
	Link       string
	Difficulty Difficulty
}

// FindQuestion specifies the conditions for finding questions.
type FindQuestion struct {
	IDs        []string
	Difficulty *Difficulty
	// ExcludeIDs removes the given question ids from the result set.
	ExcludeIDs []string
	// Random returns rows in random order. Used for sampling.
	Random bool
	Limit  *int
}

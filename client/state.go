package client

// OperationKind names the two toggleable progress flags.
type OperationKind string

const (
	OperationStar     OperationKind = "star"
	OperationComplete OperationKind = "complete"
)

// PendingOperation is one coalesced toggle waiting to be flushed. Value is the
// final desired flag state, not a delta.
type PendingOperation struct {
	QuestionID string
	Kind       OperationKind
	Value      bool
}

// State is the local optimistic copy of the lists the dashboard renders.
// Toggles mutate it immediately; the server catches up on the next flush.
type State struct {
	Daily     []Question
	Starred   []Question
	Completed []Question
}

func newState(daily, completed, starred []Question) *State {
	s := &State{
		Daily:     append([]Question(nil), daily...),
		Starred:   append([]Question(nil), starred...),
		Completed: append([]Question(nil), completed...),
	}
	return s
}

// apply updates every list the question appears in and moves it in or out of
// the starred/completed lists to match the new flag value.
func (s *State) apply(questionID string, kind OperationKind, value bool) {
	setFlag(s.Daily, questionID, kind, value)
	setFlag(s.Starred, questionID, kind, value)
	setFlag(s.Completed, questionID, kind, value)

	question, found := s.find(questionID)
	if !found {
		return
	}
	switch kind {
	case OperationStar:
		s.Starred = updateMembership(s.Starred, question, value)
	case OperationComplete:
		s.Completed = updateMembership(s.Completed, question, value)
	}
}

// flag reports the current value of the given flag for a question, or false
// when the question is unknown locally.
func (s *State) flag(questionID string, kind OperationKind) bool {
	question, found := s.find(questionID)
	if !found {
		return false
	}
	if kind == OperationStar {
		return question.Starred
	}
	return question.Completed
}

func (s *State) find(questionID string) (Question, bool) {
	for _, list := range [][]Question{s.Daily, s.Starred, s.Completed} {
		for _, question := range list {
			if question.ID == questionID {
				return question, true
			}
		}
	}
	return Question{}, false
}

func setFlag(list []Question, questionID string, kind OperationKind, value bool) {
	for i := range list {
		if list[i].ID != questionID {
			continue
		}
		if kind == OperationStar {
			list[i].Starred = value
		} else {
			list[i].Completed = value
		}
	}
}

func updateMembership(list []Question, question Question, member bool) []Question {
	index := -1
	for i := range list {
		if list[i].ID == question.ID {
			index = i
			break
		}
	}
	if member {
		if index >= 0 {
			return list
		}
		return append(list, question)
	}
	if index < 0 {
		return list
	}
	return append(list[:index], list[index+1:]...)
}

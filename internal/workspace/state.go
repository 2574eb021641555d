package workspace

import "strings"

// State is everything the form shows. Transitions are pure methods so they
// can be driven without HTTP or a generation client.
//
// DocumentSeq and AnswerSeq count the requests issued per use case. A
// response is applied only when it carries the latest number, so a slow
// earlier request can never overwrite a newer result.
type State struct {
	RawExperience  string `json:"rawExperience"`
	JobDescription string `json:"jobDescription"`
	Question       string `json:"question"`

	Document string `json:"document"`
	Answer   string `json:"answer"`

	GeneratingDocument bool   `json:"generatingDocument"`
	Answering          bool   `json:"answering"`
	ErrorMessage       string `json:"errorMessage,omitempty"`

	DocumentSeq uint64 `json:"documentSeq"`
	AnswerSeq   uint64 `json:"answerSeq"`
}

// Inputs is a partial update of the editable fields. Nil leaves a field as is.
type Inputs struct {
	RawExperience  *string `json:"rawExperience,omitempty"`
	JobDescription *string `json:"jobDescription,omitempty"`
	Question       *string `json:"question,omitempty"`
}

// SetInputs applies the non-nil fields of in.
func (s *State) SetInputs(in Inputs) {
	if in.RawExperience != nil {
		s.RawExperience = *in.RawExperience
	}
	if in.JobDescription != nil {
		s.JobDescription = *in.JobDescription
	}
	if in.Question != nil {
		s.Question = *in.Question
	}
}

// BeginGeneration validates the inputs and issues a new document request.
// On a validation failure the corrective message becomes visible and nothing
// else changes. The previous document stays on screen while pending.
func (s *State) BeginGeneration() (uint64, error) {
	var missing []string
	if isBlank(s.RawExperience) {
		missing = append(missing, "rawExperience")
	}
	if isBlank(s.JobDescription) {
		missing = append(missing, "jobDescription")
	}
	if len(missing) > 0 {
		s.ErrorMessage = MsgMissingInputs
		return 0, &ValidationError{Message: MsgMissingInputs, Fields: missing}
	}
	s.ErrorMessage = ""
	s.GeneratingDocument = true
	s.DocumentSeq++
	return s.DocumentSeq, nil
}

// ResolveGeneration stores doc if seq is the latest document request.
// It reports whether the response was applied.
func (s *State) ResolveGeneration(seq uint64, doc string) bool {
	if seq == 0 || seq != s.DocumentSeq {
		return false
	}
	s.Document = doc
	s.GeneratingDocument = false
	return true
}

// RejectGeneration records a failed document request. The last good
// document is kept.
func (s *State) RejectGeneration(seq uint64) bool {
	if seq == 0 || seq != s.DocumentSeq {
		return false
	}
	s.ErrorMessage = MsgGenerateFailed
	s.GeneratingDocument = false
	return true
}

// BeginAnswer issues a new answer request for the current question.
// A blank question is a no-op and reports false.
func (s *State) BeginAnswer() (uint64, bool) {
	if isBlank(s.Question) {
		return 0, false
	}
	s.ErrorMessage = ""
	s.Answering = true
	s.AnswerSeq++
	return s.AnswerSeq, true
}

// ResolveAnswer stores answer unchanged if seq is the latest answer request.
func (s *State) ResolveAnswer(seq uint64, answer string) bool {
	if seq == 0 || seq != s.AnswerSeq {
		return false
	}
	s.Answer = answer
	s.Answering = false
	return true
}

// RejectAnswer records a failed answer request.
func (s *State) RejectAnswer(seq uint64) bool {
	if seq == 0 || seq != s.AnswerSeq {
		return false
	}
	s.ErrorMessage = MsgAnswerFailed
	s.Answering = false
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

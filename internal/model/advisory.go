package model

import "time"

// AdvisoryStatus tags the terminal state of an advisory request.
type AdvisoryStatus string

const (
	StatusSuccess   AdvisoryStatus = "success"
	StatusUncertain AdvisoryStatus = "uncertain"
	StatusError     AdvisoryStatus = "error"
)

// Solution is one ranked corrective method from the synthesis output.
type Solution struct {
	Rank          int    `json:"rank"`
	MethodName    string `json:"method_name"`
	CoreMechanism string `json:"core_mechanism"`
	WhyEffective  string `json:"why_effective"`
}

// Poll is the follow-up poll emitted alongside a successful advisory.
// Options must match the solution method names verbatim.
type Poll struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Advisory is the terminal response of the pipeline. Exactly one of the
// three states is populated: Success carries the ranked solutions and
// poll, Uncertain carries only a message, Error additionally preserves
// the raw model output for operator inspection.
type Advisory struct {
	Status          AdvisoryStatus `json:"status"`
	Domain          Domain         `json:"domain,omitempty"`
	Problem         string         `json:"problem,omitempty"`
	Solutions       []Solution     `json:"top_solutions_ranked,omitempty"`
	ConfidenceLevel string         `json:"confidence_level,omitempty"`
	Poll            *Poll          `json:"poll,omitempty"`
	Message         string         `json:"message,omitempty"`
	RawOutput       string         `json:"raw_output,omitempty"`
}

// Uncertain builds an Uncertain advisory with the given message.
func Uncertain(message string) *Advisory {
	return &Advisory{Status: StatusUncertain, Message: message}
}

// ErrorAdvisory builds an Error advisory preserving the raw model output.
func ErrorAdvisory(message, rawOutput string) *Advisory {
	return &Advisory{Status: StatusError, Message: message, RawOutput: rawOutput}
}

// QuestionRecord is a persisted advisory question.
type QuestionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Domain    Domain    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

// PollRecord is a persisted poll awaiting re-analysis.
type PollRecord struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Poll       Poll      `json:"poll"`
	Analyzed   bool      `json:"analyzed"`
	DueAt      time.Time `json:"due_at"`
	CreatedAt  time.Time `json:"created_at"`
}

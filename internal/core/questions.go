package core

// InterviewQuestion is one entry of the fixed interview the client walks
// through; QuestionIndex in stored responses is the position in this list.
type InterviewQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

var interviewQuestions = []InterviewQuestion{
	{ID: 1, Text: "When do you feel most like yourself?"},
	{ID: 2, Text: "What's a talent or quality you often overlook in yourself?"},
	{ID: 3, Text: "If fear didn't exist, what would you chase?"},
	{ID: 4, Text: "What kind of energy do people feel from you — and what do you wish they felt?"},
	{ID: 5, Text: "What's a role you've played in life that doesn't reflect the real you?"},
	{ID: 6, Text: "Describe a moment where you surprised yourself — in a good way."},
	{ID: 7, Text: "If your inner voice had a job, what would it be?"},
	{ID: 8, Text: "Which emotion do you suppress the most?"},
	{ID: 9, Text: "Who do you pretend to be… but aren't?"},
	{ID: 10, Text: "If your life was a symbol, what would it look like?"},
}

// InterviewQuestions returns a copy of the question bank in order.
func InterviewQuestions() []InterviewQuestion {
	out := make([]InterviewQuestion, len(interviewQuestions))
	copy(out, interviewQuestions)
	return out
}

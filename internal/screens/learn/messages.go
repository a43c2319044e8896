package learn

// op names a session call run off the UI goroutine.
type op string

const (
	opStart    op = "start"
	opContent  op = "content"
	opQuiz     op = "quiz"
	opFeedback op = "feedback"
	opNext     op = "next"
)

// opDoneMsg is sent when a session call returns.
type opDoneMsg struct {
	Op  op
	Err error
}

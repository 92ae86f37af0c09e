package transcript

import "time"

// ResponseState tracks where a Turn's response is in its lifecycle.
type ResponseState string

const (
	StatePending   ResponseState = "pending"
	StateStreaming ResponseState = "streaming"
	StateComplete  ResponseState = "complete"
	StateErrored   ResponseState = "errored"
)

// Terminal reports whether no further mutation is expected.
func (s ResponseState) Terminal() bool {
	return s == StateComplete || s == StateErrored
}

// Kind records which pipeline produced the response.
type Kind string

const (
	KindChat       Kind = "chat"
	KindBrainstorm Kind = "brainstorm"
	KindNews       Kind = "news"
	KindImage      Kind = "image"
	KindDocument   Kind = "document"
)

// Turn is one user/assistant exchange.
type Turn struct {
	ID            int64         `json:"id"`
	UserText      string        `json:"user_text"`
	ResponseText  string        `json:"response_text"`
	ResponseState ResponseState `json:"response_state"`
	Kind          Kind          `json:"kind"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Exchange is a Turn reduced to what a completion provider needs.
type Exchange struct {
	Role    string
	Content string
}

package entity

// Message types map to the CSS alert classes used by the pages.
const (
	MessageSuccess = "success"
	MessageDanger  = "danger"
)

// Message is a one-shot status banner carried across a redirect.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func Success(text string) Message { return Message{Type: MessageSuccess, Message: text} }
func Danger(text string) Message  { return Message{Type: MessageDanger, Message: text} }

package llm

import "github.com/RichardoC/padchat/internal/models"

const (
	RoleSystem    = "system"
	RoleUser      = string(models.RoleUser)
	RoleAssistant = string(models.RoleAssistant)
)

// Turn is one plain-text entry of a conversation history.
type Turn struct {
	Role    string
	Content string
}

// ContentPart is either a TextPart or an ImagePart.
type ContentPart interface {
	isContentPart()
}

type TextPart struct {
	Text string
}

// ImagePart references an image by http(s) URL or data URL.
type ImagePart struct {
	URL string
}

func (TextPart) isContentPart()  {}
func (ImagePart) isContentPart() {}

// Message is a provider-neutral chat message. Providers convert it to their
// own wire format.
type Message struct {
	Role  string
	Parts []ContentPart
}

func textMessage(role, text string) Message {
	return Message{Role: role, Parts: []ContentPart{TextPart{Text: text}}}
}

// BuildChatMessages prepends the system prompt to history. When image is
// set and the last turn is from the user, that turn becomes an image plus
// its text, or DefaultImageQuestion if the text is empty.
func BuildChatMessages(history []Turn, image string) []Message {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, textMessage(RoleSystem, SystemPrompt))

	if len(history) == 0 {
		return messages
	}

	for _, turn := range history[:len(history)-1] {
		messages = append(messages, textMessage(turn.Role, turn.Content))
	}

	last := history[len(history)-1]
	if image != "" && last.Role == RoleUser {
		text := last.Content
		if text == "" {
			text = DefaultImageQuestion
		}
		messages = append(messages, Message{
			Role: RoleUser,
			Parts: []ContentPart{
				ImagePart{URL: image},
				TextPart{Text: text},
			},
		})
	} else {
		messages = append(messages, textMessage(last.Role, last.Content))
	}
	return messages
}

// TitleMessages builds the request that summarizes a first message into a
// conversation title.
func TitleMessages(text string) []Message {
	return []Message{
		textMessage(RoleSystem, TitlePrompt),
		textMessage(RoleUser, text),
	}
}

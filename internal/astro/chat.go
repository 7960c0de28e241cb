package astro

import "fmt"

const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// ChatMessage is one turn of a user/bot conversation.
type ChatMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Sequence  int    `json:"sequence"`
}

// ChatLog is the normalized conversation with per-speaker counts.
type ChatLog struct {
	Conversations []ChatMessage `json:"conversations"`
	Summary       string        `json:"summary"`
	TotalMessages int           `json:"total_messages"`
	UserMessages  int           `json:"user_messages"`
	BotMessages   int           `json:"bot_messages"`
	ParsingMethod string        `json:"parsing_method"`
}

// EmptyChat is the log of a session without a transcript.
func EmptyChat() ChatLog {
	return ChatLog{
		Conversations: []ChatMessage{},
		Summary:       "No chat data available",
		ParsingMethod: MethodNone.String(),
	}
}

// ParseChat normalizes a raw chat transcript.
func ParseChat(raw string) ChatLog {
	return ChatFrom(Decode(raw, DomainChat))
}

// ChatFrom builds the log from a decoded transcript. Sequence is the 1-based
// position in the decoded list; items naming neither speaker are skipped.
func ChatFrom(r Result) ChatLog {
	items, _ := r.Value.(List)
	if len(items) == 0 {
		return EmptyChat()
	}

	log := ChatLog{
		Conversations: make([]ChatMessage, 0, len(items)),
		ParsingMethod: r.Method.String(),
	}

	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		msg := ChatMessage{
			Timestamp: Map(m).Text(Unknown, "timestamp"),
			Sequence:  i + 1,
		}
		if v, ok := m[SpeakerUser]; ok {
			msg.Type = SpeakerUser
			msg.Message = text(v)
			log.UserMessages++
		} else if v, ok := m[SpeakerBot]; ok {
			msg.Type = SpeakerBot
			msg.Message = text(v)
			log.BotMessages++
		} else {
			continue
		}
		log.Conversations = append(log.Conversations, msg)
	}

	if len(log.Conversations) == 0 {
		return EmptyChat()
	}

	log.TotalMessages = len(log.Conversations)
	if r.Fallback() {
		log.Summary = fmt.Sprintf("Fallback parsing: %d messages", log.TotalMessages)
	} else {
		log.Summary = fmt.Sprintf("%d user messages, %d bot responses", log.UserMessages, log.BotMessages)
	}
	return log
}

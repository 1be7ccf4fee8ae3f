package domain

import "time"

// Conversation is the rolling chat history of a single session.
type Conversation struct {
	SessionID string
	History   string
}

// Append records one exchange and keeps only the trailing limit characters.
func (c *Conversation) Append(message, reply string, limit int) {
	c.History += "User: " + message + "\nAI: " + reply + "\n"
	if limit <= 0 {
		return
	}
	runes := []rune(c.History)
	if len(runes) > limit {
		c.History = string(runes[len(runes)-limit:])
	}
}

type ChatRequest struct {
	SessionID string
	Message   string
	Date      time.Time
	Category  Category
}

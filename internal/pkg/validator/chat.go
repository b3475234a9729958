package validator

import (
	"fmt"
	"strings"

	"github.com/jarvis-assistant/backend/internal/entity"
)

// ValidateChat validates a chat request. A whitespace-only message counts
// as empty.
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return entity.ErrEmptyMessage
	}

	for i, msg := range req.ConversationHistory {
		if err := msg.Role.Validate(); err != nil {
			return fmt.Errorf("%w: history[%d] role %q", entity.ErrInvalidRole, i, msg.Role)
		}
	}

	return nil
}

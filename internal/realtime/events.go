package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

// Event names carried in the channel envelope. The server publishes
// these, the client binds handlers to them.
const (
	EventTaskCreated = "task-created"
	EventTaskUpdated = "task-updated"
	EventTaskDeleted = "task-deleted"
	EventBadgeEarned = "badge-earned"
)

// Envelope is the wire frame for every channel message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type TaskPayload struct {
	Task models.Task `json:"task"`
}

type TaskDeletedPayload struct {
	TaskID int `json:"taskId"`
}

type BadgeEarnedPayload struct {
	Badge    models.Badge `json:"badge"`
	EarnedAt string       `json:"earned_at"`
}

// ChannelName joins the literal dot-delimited channel segments. Tenant
// codes and usernames containing the delimiter would collide with other
// channels, so they are rejected here rather than assumed clean
// upstream.
func ChannelName(kind, tenantCode, username string) (string, error) {
	for _, seg := range []string{kind, tenantCode, username} {
		if seg == "" {
			return "", fmt.Errorf("realtime: empty channel segment")
		}
		if strings.Contains(seg, ".") {
			return "", fmt.Errorf("realtime: channel segment %q contains delimiter", seg)
		}
	}
	return kind + "." + tenantCode + "." + username, nil
}

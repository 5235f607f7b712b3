package event

type Type string

const (
	TypeUserRegistered   Type = "user.registered"
	TypeLoginSucceeded   Type = "auth.login_succeeded"
	TypeLoginFailed      Type = "auth.login_failed"
	TypeAccountLocked    Type = "account.locked"
	TypeTokenRefreshed   Type = "token.refreshed"
	TypeTokenRevoked     Type = "token.revoked"
	TypeAdminProvisioned Type = "admin.provisioned"
)

type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp string         `json:"timestamp"`
	ActorID   string         `json:"actor_id,omitempty"` // user the event is about
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // channel and unsubscribe function
}

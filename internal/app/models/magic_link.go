package models

import "time"

// LinkState is the explicit lifecycle of a magic link. Expiry stays implicit
// via Exp so that revocation and natural expiry share one check.
type LinkState string

const (
	LinkStateActive  LinkState = "active"
	LinkStateUsed    LinkState = "used"
	LinkStateRevoked LinkState = "revoked"
)

// MagicLink is a single-use, time-limited capability token authorizing one
// account action without a standing session.
type MagicLink struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	CsrfToken string    `bson:"csrfToken"`
	Cookie    *string   `bson:"cookie,omitempty"`
	Exp       int64     `bson:"exp"`
	State     LinkState `bson:"state"`
	Usage     string    `bson:"usage"`
}

// BindCookie records the session-binding cookie value. The binding is
// write-once; later calls are no-ops.
func (ml *MagicLink) BindCookie(value string) {
	if ml.Cookie == nil {
		ml.Cookie = &value
	}
}

// MarkUsed moves an active link into its terminal used state. The
// transition happens at most once and is never reversed.
func (ml *MagicLink) MarkUsed() {
	if ml.State == LinkStateActive {
		ml.State = LinkStateUsed
	}
}

// Revoke soft-deletes the link: the state becomes revoked and Exp is pulled
// into the past so every expiry check fails from now on. Exp is only ever
// decreased, never extended.
func (ml *MagicLink) Revoke() {
	if ml.State == LinkStateActive {
		ml.State = LinkStateRevoked
	}
	revokedExp := time.Now().Unix() - 10
	if revokedExp < ml.Exp {
		ml.Exp = revokedExp
	}
}

func (ml *MagicLink) IsUsed() bool {
	return ml.State == LinkStateUsed
}

package model

// Owned is implemented by every record attributed to a user. OwnerID returns
// the canonical owner, authoritative for write access. Resources nested under
// a parent (Message under Chat) additionally require the parent's owner to
// match the requester; that check lives in the service layer.
type Owned interface {
	OwnerID() uint
}

var (
	_ Owned = (*Chat)(nil)
	_ Owned = (*Message)(nil)
	_ Owned = (*APIToken)(nil)
	_ Owned = (*Profile)(nil)
	_ Owned = (*Settings)(nil)
)

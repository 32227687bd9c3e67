package store

// ActorID identifies a platform user. It is opaque to the engine apart from
// equality and emptiness.
type ActorID string

func (a ActorID) IsZero() bool { return a == "" }

type Node struct {
	ID          int64
	Title       string
	Description string
	BackdropID  *int64
	Character1  *int64
	Character2  *int64
	IsRoot      bool
	CreatedBy   ActorID
	ModifiedBy  ActorID
}

type NodeSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	IsRoot bool   `json:"is_root"`
}

type Edge struct {
	ID        int64
	SourceID  int64
	TargetID  *int64
	Label     string
	CreatedBy ActorID
}

func (e Edge) HasTarget() bool { return e.TargetID != nil }

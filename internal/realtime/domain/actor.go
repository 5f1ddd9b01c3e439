package domain

import (
	"strconv"
	"strings"

	errprocess "talent_realtime_service/pkg/err"
)

// ActorKind kind of platform actor
type ActorKind string

const (
	// Candidate job seeker
	Candidate ActorKind = "candidate"
	// Organization hiring organization
	Organization ActorKind = "organization"
)

// UnknownActorName display name when the directory can not resolve a ref
const UnknownActorName = "unknown actor"

// Valid check kind is a known actor kind
func (k ActorKind) Valid() bool {
	return k == Candidate || k == Organization
}

// ActorRef identifies an actor, id alone is never enough
type ActorRef struct {
	ID   string    `bson:"id" json:"id"`
	Kind ActorKind `bson:"kind" json:"kind"`
}

// Key canonical string "kind:id"
func (a ActorRef) Key() string {
	return string(a.Kind) + ":" + a.ID
}

// Equal same id and kind
func (a ActorRef) Equal(o ActorRef) bool {
	return a.ID == o.ID && a.Kind == o.Kind
}

// Validate non empty id and known kind
func (a ActorRef) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errprocess.New(errprocess.KindValidation, "actor id is required")
	}
	if !a.Kind.Valid() {
		return errprocess.New(errprocess.KindValidation, "unknown actor kind: "+string(a.Kind))
	}
	return nil
}

// ParseActorKey inverse of Key
func ParseActorKey(key string) (ActorRef, bool) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" || !ActorKind(kind).Valid() {
		return ActorRef{}, false
	}
	return ActorRef{ID: id, Kind: ActorKind(kind)}, true
}

// PairKey order independent key of two actors, "len(min):min|max"
// ids may contain ':' or '|', the length prefix keeps the split point unique
func PairKey(a, b ActorRef) string {
	ka, kb := a.Key(), b.Key()
	if ka > kb {
		ka, kb = kb, ka
	}
	return strconv.Itoa(len(ka)) + ":" + ka + "|" + kb
}

// Profile display data resolved by the actor directory
type Profile struct {
	Ref         ActorRef `json:"ref"`
	DisplayName string   `json:"display_name"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
}

// UnknownProfile placeholder for dangling refs
func UnknownProfile(ref ActorRef) Profile {
	return Profile{Ref: ref, DisplayName: UnknownActorName}
}

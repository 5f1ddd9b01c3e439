package domain

import (
	"testing"
	"time"

	errprocess "talent_realtime_service/pkg/err"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	a := ActorRef{ID: "42", Kind: Candidate}
	b := ActorRef{ID: "42", Kind: Organization}

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.Equal(t, "12:candidate:42|organization:42", PairKey(a, b))
}

func TestPairKeySeparatorInID(t *testing.T) {
	x := ActorRef{ID: "x", Kind: Candidate}
	yz := ActorRef{ID: "y|candidate:z", Kind: Organization}
	xy := ActorRef{ID: "x|organization:y", Kind: Candidate}
	z := ActorRef{ID: "z", Kind: Candidate}

	assert.NotEqual(t, PairKey(x, yz), PairKey(xy, z))
	assert.Equal(t, PairKey(x, yz), PairKey(yz, x))
	assert.Equal(t, PairKey(xy, z), PairKey(z, xy))
}

func TestActorRefSameIDDifferentKind(t *testing.T) {
	a := ActorRef{ID: "7", Kind: Candidate}
	b := ActorRef{ID: "7", Kind: Organization}

	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestActorRefValidate(t *testing.T) {
	assert.NoError(t, ActorRef{ID: "1", Kind: Organization}.Validate())
	assert.True(t, errprocess.IsKind(ActorRef{ID: "", Kind: Candidate}.Validate(), errprocess.KindValidation))
	assert.True(t, errprocess.IsKind(ActorRef{ID: "1", Kind: "admin"}.Validate(), errprocess.KindValidation))
}

func TestParseActorKey(t *testing.T) {
	ref, ok := ParseActorKey("organization:abc:def")
	assert.True(t, ok)
	assert.Equal(t, ActorRef{ID: "abc:def", Kind: Organization}, ref)

	_, ok = ParseActorKey("robot:1")
	assert.False(t, ok)
	_, ok = ParseActorKey("candidate:")
	assert.False(t, ok)
}

func TestChatPeer(t *testing.T) {
	a := ActorRef{ID: "1", Kind: Candidate}
	b := ActorRef{ID: "2", Kind: Organization}
	chat := &Chat{Participants: []ActorRef{a, b}}

	peer, ok := chat.Peer(a)
	assert.True(t, ok)
	assert.Equal(t, b, peer)

	_, ok = chat.Peer(ActorRef{ID: "1", Kind: Organization})
	assert.False(t, ok)
}

func TestCursorParse(t *testing.T) {
	at := time.UnixMilli(1700000000123).UTC()
	c := Cursor{CreatedAt: at, Seq: 9}

	parsed, err := ParseCursor(c.String())
	assert.NoError(t, err)
	assert.True(t, parsed.CreatedAt.Equal(at))
	assert.Equal(t, int64(9), parsed.Seq)

	parsed, err = ParseCursor("")
	assert.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseCursor("yesterday")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestMessageOrdering(t *testing.T) {
	at := Now()
	m1 := &Message{CreatedAt: at, Seq: 1}
	m2 := &Message{CreatedAt: at, Seq: 2}
	m3 := &Message{CreatedAt: at.Add(-time.Millisecond), Seq: 3}

	assert.True(t, m1.Before(m2))
	assert.True(t, m3.Before(m1))
}

package errprocess

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindValidation, KindOf(New(KindValidation, "bad")))

	wrapped := fmt.Errorf("send message: %w", Storage("insert", errors.New("timeout")))
	assert.Equal(t, KindStorageUnavailable, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindStorageUnavailable))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestAppErrorIs(t *testing.T) {
	notFound := New(KindNotFound, "chat not found")
	other := New(KindNotFound, "message not found")

	assert.ErrorIs(t, fmt.Errorf("x: %w", notFound), notFound)
	assert.False(t, errors.Is(other, notFound))
	// 沒有訊息的 target 只比對 kind
	assert.ErrorIs(t, other, &AppError{Kind: KindNotFound})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(KindInternal, "noop", nil))

	cause := errors.New("dial tcp")
	err := Wrap(KindStorageUnavailable, "find chat", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "find chat: dial tcp", err.Error())
}

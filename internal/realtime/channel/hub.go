package channel

import (
	"sync"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
)

// Hub chat channel membership, join and leave are the only mutations
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[string]presence.Handle // chatID -> handleID -> handle
	joined   map[string]map[string]struct{}        // handleID -> chatIDs
}

// NewHub create empty hub
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[string]presence.Handle),
		joined:   make(map[string]map[string]struct{}),
	}
}

// Join subscribe handle to chat channel
func (h *Hub) Join(chatID string, handle presence.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.channels[chatID]
	if !ok {
		members = make(map[string]presence.Handle)
		h.channels[chatID] = members
	}
	members[handle.ID()] = handle

	chats, ok := h.joined[handle.ID()]
	if !ok {
		chats = make(map[string]struct{})
		h.joined[handle.ID()] = chats
	}
	chats[chatID] = struct{}{}
}

// Leave unsubscribe handle from chat channel
func (h *Hub) Leave(chatID string, handle presence.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(chatID, handle.ID())
}

// LeaveAll unsubscribe handle from every channel, used on disconnect
func (h *Hub) LeaveAll(handle presence.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for chatID := range h.joined[handle.ID()] {
		h.leave(chatID, handle.ID())
	}
	delete(h.joined, handle.ID())
}

func (h *Hub) leave(chatID, handleID string) {
	if members, ok := h.channels[chatID]; ok {
		delete(members, handleID)
		if len(members) == 0 {
			delete(h.channels, chatID)
		}
	}
	if chats, ok := h.joined[handleID]; ok {
		delete(chats, chatID)
		if len(chats) == 0 {
			delete(h.joined, handleID)
		}
	}
}

// Members snapshot of channel members
func (h *Hub) Members(chatID string) []presence.Handle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]presence.Handle, 0, len(h.channels[chatID]))
	for _, m := range h.channels[chatID] {
		members = append(members, m)
	}
	return members
}

// IsMember handle joined chat channel
func (h *Hub) IsMember(chatID string, handle presence.Handle) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.channels[chatID][handle.ID()]
	return ok
}

// Publish send event to every member except the given handles, returns delivered count
func (h *Hub) Publish(chatID string, evt domain.WSResponse, except ...presence.Handle) int {
	delivered := 0
	for _, m := range h.Members(chatID) {
		if excluded(m, except) {
			continue
		}
		if m.Send(evt) {
			delivered++
		}
	}
	return delivered
}

func excluded(h presence.Handle, except []presence.Handle) bool {
	for _, e := range except {
		if e != nil && e.ID() == h.ID() {
			return true
		}
	}
	return false
}

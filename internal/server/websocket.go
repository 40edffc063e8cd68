package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *wsHub) add(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[sessionID]
	if !ok {
		group = make(map[*websocket.Conn]struct{})
		h.groups[sessionID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) remove(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.groups[sessionID]; ok {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.groups, sessionID)
		}
	}
	_ = conn.Close()
}

func (h *wsHub) broadcast(sessionID string, payload []byte) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.groups[sessionID]))
	for conn := range h.groups[sessionID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(sessionID, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	idOrCode := strings.TrimPrefix(r.URL.Path, "/ws/sessions/")
	idOrCode = strings.Trim(idOrCode, "/")
	session, ok := s.store.GetSession(idOrCode)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed session_id=%s error=%v", session.ID, err)
		return
	}
	s.ws.add(session.ID, conn)
	s.sendSnapshot(session, conn)

	go func() {
		defer s.ws.remove(session.ID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) sendSnapshot(session *Session, conn *websocket.Conn) {
	var payload []byte
	_ = s.store.ViewSession(session.ID, func(session *Session) {
		data, err := json.Marshal(s.snapshot(session))
		if err != nil {
			return
		}
		payload = data
	})
	if payload == nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.ws.remove(session.ID, conn)
	}
}

func (s *Server) broadcastSessionUpdate(session *Session) {
	var payload []byte
	err := s.store.ViewSession(session.ID, func(session *Session) {
		data, marshalErr := json.Marshal(s.snapshot(session))
		if marshalErr != nil {
			log.Printf("snapshot marshal failed session_id=%s error=%v", session.ID, marshalErr)
			return
		}
		payload = data
	})
	if err != nil || payload == nil {
		return
	}
	s.ws.broadcast(session.ID, payload)
}

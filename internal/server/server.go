package server

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"gorm.io/gorm"

	"crisis-response/internal/catalog"
	"crisis-response/internal/config"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	cat      *catalog.Catalog
	ws       *wsHub
	cfg      config.Config
	pick     func(n int) int
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func New(conn *gorm.DB, cat *catalog.Catalog, cfg config.Config) *Server {
	if cat == nil {
		cat = catalog.Builtin()
	}
	return &Server{
		store:  NewStore(),
		db:     conn,
		cat:    cat,
		ws:     newWSHub(),
		cfg:    cfg,
		pick:   func(n int) int { return rand.IntN(n) },
		timers: make(map[string]*time.Timer),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/", s.handleSessionSubroutes)
	mux.HandleFunc("POST /api/sessions/", s.handleSessionSubroutes)
	mux.HandleFunc("GET /ws/sessions/", s.handleWebsocket)
	mux.Handle("/admin/", s.adminRouter())
	return mux
}

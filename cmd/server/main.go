package main

import (
	"log"
	"net/http"
	"os"

	"crisis-response/internal/catalog"
	"crisis-response/internal/config"
	"crisis-response/internal/db"
	"crisis-response/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	conn, err := db.Open()
	if err != nil {
		log.Printf("running without database: %v", err)
		conn = nil
	}
	cat := catalog.Builtin()
	if conn != nil {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		if err := db.TunePool(conn, cfg); err != nil {
			log.Fatalf("database pool setup failed: %v", err)
		}
		if loaded, err := catalog.FromDB(conn); err != nil {
			log.Printf("using builtin card catalog: %v", err)
		} else {
			cat = loaded
		}
	}

	srv := server.New(conn, cat, cfg)
	log.Printf("crisis-response server listening on %s cards=%d", addr, cat.Len())
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

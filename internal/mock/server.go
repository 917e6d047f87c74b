// Package mock serves a local target with predictable behaviors so the
// tool can be tried without pointing it at anything real.
package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

type ServerConfig struct {
	Port int
}

func Start(cfg ServerConfig) *http.Server {
	mux := http.NewServeMux()

	// JSON endpoint, 10-50ms
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(rand.Intn(40)+10) * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "method": r.Method})
	})

	// Echoes a POST/PUT body back, useful for payload testing
	mux.HandleFunc("/api/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})

	// A page-sized HTML response, 30-120ms
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(rand.Intn(90)+30) * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><body><h1>Mock page</h1><p>%s</p></body></html>", time.Now())
	})

	// Slow endpoint (1s-2s), good for timeout testing
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(rand.Intn(1000)+1000) * time.Millisecond)
		w.Write([]byte("finally"))
	})

	// Random failures: ~20% 500, ~20% 429
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		rnd := rand.Float32()
		switch {
		case rnd < 0.2:
			http.Error(w, "something broke", http.StatusInternalServerError)
		case rnd < 0.4:
			http.Error(w, "slow down", http.StatusTooManyRequests)
		default:
			w.Write([]byte("OK"))
		}
	})

	// Requires a bearer token, for auth testing
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("welcome"))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	fmt.Printf("🎯 Mock target running on http://localhost%s\n", addr)
	fmt.Println("   Endpoints: /api, /api/echo, /page, /slow, /flaky, /private")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Mock server failed: %v\n", err)
		}
	}()
	return server
}

// Package main provides a load testing tool for the notifications WebSocket hub.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

type probeStats struct {
	attempted atomic.Int64
	connected atomic.Int64
	failed    atomic.Int64
	events    atomic.Int64
}

func (s *probeStats) report() {
	log.Println("\n📊 Probe Results")
	log.Println("================")
	log.Printf("Connections Attempted:  %d", s.attempted.Load())
	log.Printf("Connections Successful: %d", s.connected.Load())
	log.Printf("Connections Failed:     %d", s.failed.Load())
	log.Printf("Events Received:        %d", s.events.Load())
}

func main() {
	host := flag.String("host", "localhost:8375", "API server host")
	username := flag.String("username", "alice", "Test account username")
	password := flag.String("password", "password123", "Test account password")
	clients := flag.Int("clients", 50, "Number of concurrent connections")
	duration := flag.Duration("duration", 30*time.Second, "Probe duration")
	flag.Parse()

	log.Printf("🚀 Starting Notification Hub Probe")
	log.Printf("Target: %s, clients: %d, duration: %v", *host, *clients, *duration)

	token, err := login(*host, *username, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	log.Printf("✅ Logged in as %s", *username)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	stats := &probeStats{}
	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			holdConnection(ctx, *host, token, stats)
		}()
		// Stagger dials so the server's limiter sees a ramp, not a burst.
		time.Sleep(50 * time.Millisecond)
	}

	<-ctx.Done()
	log.Println("⏱️  Probe finished, waiting for clients to disconnect...")
	wg.Wait()
	stats.report()
}

// login authenticates against the API and returns the access token from
// the session cookie.
func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post("http://"+host+"/Auth/Login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "X-Access-Token" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("login response did not set an access token cookie")
}

// holdConnection dials the hub, counts incoming events, and closes cleanly
// when ctx expires.
func holdConnection(ctx context.Context, host, token string, stats *probeStats) {
	stats.attempted.Add(1)

	hubURL := url.URL{
		Scheme:   "ws",
		Host:     host,
		Path:     "/Friend/Hub",
		RawQuery: "token=" + url.QueryEscape(token),
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, hubURL.String(), nil)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		stats.failed.Add(1)
		return
	}
	defer func() { _ = conn.Close() }()
	stats.connected.Add(1)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			stats.events.Add(1)
		}
	}()

	select {
	case <-ctx.Done():
		closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, closeFrame)
	case <-readDone:
	}
}

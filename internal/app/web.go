// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gamepad_motion/internal/config"
	"github.com/relabs-tech/gamepad_motion/internal/pad"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// stateHub fans the latest fused state out to websocket clients.
type stateHub struct {
	mu        sync.RWMutex
	last      pad.State
	haveState bool
	clients   map[*websocket.Conn]struct{}
}

func newStateHub() *stateHub {
	return &stateHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *stateHub) update(s pad.State) {
	h.mu.Lock()
	h.last = s
	h.haveState = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	payload, err := json.Marshal(s)
	if err != nil {
		log.Printf("web: state marshal error: %v", err)
		return
	}
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
		}
	}
}

func (h *stateHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *stateHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

func (h *stateHub) snapshot() (pad.State, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.haveState
}

// RunWeb serves the latest fused state over HTTP and pushes live updates to
// websocket clients as they arrive from MQTT.
func RunWeb() error {
	cfg := config.Get()
	hub := newStateHub()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the state topic and fan out to clients
	token := client.Subscribe(cfg.TopicState, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s pad.State
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: state unmarshal error: %v", err)
			return
		}
		hub.update(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicState)

	// 3) JSON API endpoint: latest state
	http.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		s, ok := hub.snapshot()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket endpoint: live state stream
	http.HandleFunc("/ws/state", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		log.Printf("web: websocket client connected from %s", r.RemoteAddr)

		// Drain reads so close frames are processed; drop the client on
		// any read error.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.remove(conn)
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

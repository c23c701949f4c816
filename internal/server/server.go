package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tandria/orbitlab/internal/config"
	"github.com/tandria/orbitlab/internal/orbit"
	"github.com/tandria/orbitlab/internal/storage"
)

// isValidOrigin allows same-origin and localhost connections.
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Printf("invalid origin URL: %s", origin)
		return false
	}

	if r.Host == originURL.Host {
		return true
	}

	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Printf("rejected websocket connection from origin: %s", origin)
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Message types
const (
	MsgTypePause  = "pause"
	MsgTypeResume = "resume"
	MsgTypeReset  = "reset"
	MsgTypeFrame  = "frame"
)

// ClientMessage is a command from a viewer.
type ClientMessage struct {
	Type string `json:"type"`
}

// ServerMessage is a message pushed to viewers.
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// FramePayload is one simulation frame as sent to viewers.
type FramePayload struct {
	Tick   int                  `json:"tick"`
	Paused bool                 `json:"paused"`
	Bodies []storage.BodySample `json:"bodies"`
	Energy float64              `json:"energy"`
}

// Client is a connected viewer.
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Server steps the simulation on a fixed clock and streams frames to every
// connected websocket viewer. Viewers can pause, resume, and reset the run.
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	nextID     int

	world  *orbit.World
	gen    *orbit.Generator
	cfg    *config.Config
	paused bool
}

func New(world *orbit.World, gen *orbit.Generator, cfg *config.Config) *Server {
	return &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		world:      world,
		gen:        gen,
		cfg:        cfg,
	}
}

// ListenAndServe runs the hub, the simulation loop, and the HTTP listener
// until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	go s.run(ctx)
	go s.simLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving frames on ws://%s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// run handles client registration and broadcast fan-out.
func (s *Server) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("client %d connected", client.ID)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			log.Printf("client %d disconnected", client.ID)

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// send buffer full, drop the frame for this client
				}
			}
			s.mu.RUnlock()
		}
	}
}

// simLoop advances the world at the configured frame rate and broadcasts
// the resulting frames.
func (s *Server) simLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.world.Step(s.paused)
			payload := FramePayload{
				Tick:   s.world.Ticks(),
				Paused: s.paused,
				Bodies: storage.Snapshot(s.world.Ticks(), s.world.Bodies).Bodies,
				Energy: s.world.Energy(),
			}
			s.mu.Unlock()

			s.broadcast <- ServerMessage{Type: MsgTypeFrame, Data: payload}
		}
	}
}

func (s *Server) handleMessage(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MsgTypePause:
		s.paused = true
	case MsgTypeResume:
		s.paused = false
	case MsgTypeReset:
		var bodies []*orbit.Body
		if s.gen != nil {
			bodies = s.gen.Generate()
		} else {
			bodies = orbit.ClassicScenario(s.cfg.G, s.cfg.TrailLength)
		}
		s.world.Reset(bodies)
	}
}

// HandleWebSocket upgrades the connection and starts the client's pumps.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
		c.server.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

type BroadcasterConfig struct {
	Fingerprint  string
	SendBuffer   int
	WriteTimeout time.Duration
}

// Broadcaster is a presentation.Sink that streams every command to connected
// websocket renderers. Late joiners receive a snapshot of the scene first.
type Broadcaster struct {
	presentation.CommandFunc

	cfg      BroadcasterConfig
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Connection
	seq     uint64
	scene   scene
	closed  bool
}

var _ presentation.Sink = (*Broadcaster)(nil)

func NewBroadcaster(cfg BroadcasterConfig, logger log.Log) *Broadcaster {
	b := &Broadcaster{
		cfg:    cfg,
		logger: log.OrNop(logger).With(log.String("component", "broadcaster")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]*Connection),
		scene:   newScene(),
	}
	b.CommandFunc = b.Publish
	return b
}

// Publish records cmd in the scene snapshot and queues it for every client.
// It never blocks; clients that cannot keep up are disconnected.
func (b *Broadcaster) Publish(cmd presentation.Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.scene.apply(cmd)
	b.seq++

	data, err := json.Marshal(Message{Type: MessageCommand, Seq: b.seq, Command: &cmd})
	if err != nil {
		b.logger.Error("failed to marshal command", log.String("kind", string(cmd.Kind)), log.Error(err))
		return
	}
	for id, c := range b.clients {
		if err := c.Enqueue(data); err != nil {
			b.logger.Warn("dropping client", log.String("client", id), log.Error(err))
			delete(b.clients, id)
			go c.CloseWithReason("send buffer full")
		}
	}
}

// ServeHTTP upgrades the request and serves the connection until either side
// closes it.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", log.String("remote", r.RemoteAddr), log.Error(err))
		return
	}
	c := newConnection(ws, b.cfg.SendBuffer, b.cfg.WriteTimeout)
	if err := b.register(c); err != nil {
		b.logger.Warn("rejecting client", log.String("client", c.ID()), log.Error(err))
		_ = c.CloseWithReason(err.Error())
		return
	}
	b.logger.Info("client connected", log.String("client", c.ID()), log.String("remote", r.RemoteAddr))

	var g errgroup.Group
	g.Go(func() error {
		defer c.Close()
		return c.writeLoop()
	})
	g.Go(func() error {
		defer c.Close()
		return c.readLoop()
	})
	err = g.Wait()

	b.unregister(c.ID())
	m := c.Metrics()
	b.logger.Info("client disconnected",
		log.String("client", c.ID()),
		log.String("remote", c.RemoteAddr().String()),
		log.Duration("session", time.Since(c.ConnectedAt())),
		log.Uint64("messages", m.MessagesSent),
		log.Uint64("bytes", m.BytesSent),
		log.Error(err),
	)
}

func (b *Broadcaster) register(c *Connection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrServerClosed
	}

	hello, err := json.Marshal(Message{Type: MessageHello, Seq: b.seq, Client: c.ID(), Fingerprint: b.cfg.Fingerprint})
	if err != nil {
		return errors.Wrap(err, "failed to marshal hello")
	}
	if err := c.Enqueue(hello); err != nil {
		return err
	}
	for _, cmd := range b.scene.snapshot() {
		cmd := cmd
		data, err := json.Marshal(Message{Type: MessageCommand, Seq: b.seq, Command: &cmd})
		if err != nil {
			return errors.Wrap(err, "failed to marshal snapshot")
		}
		if err := c.Enqueue(data); err != nil {
			return errors.Wrap(err, "snapshot exceeds send buffer")
		}
	}
	b.clients[c.ID()] = c
	return nil
}

func (b *Broadcaster) unregister(id string) {
	b.mu.Lock()
	delete(b.clients, id)
	b.mu.Unlock()
}

// Clients returns the number of connected renderers.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every client. Later commands are discarded.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	clients := b.clients
	b.clients = make(map[string]*Connection)
	b.mu.Unlock()

	for _, c := range clients {
		_ = c.CloseWithReason("server shutting down")
	}
	return nil
}

// scene folds the command stream into the state a new renderer needs.
type scene struct {
	display *presentation.Command
	audio   *presentation.Command
	objects map[string]presentation.Command
	scales  map[string]physics.Vec3
}

func newScene() scene {
	return scene{
		objects: make(map[string]presentation.Command),
		scales:  make(map[string]physics.Vec3),
	}
}

func (s *scene) apply(cmd presentation.Command) {
	switch cmd.Kind {
	case presentation.KindShow:
		c := cmd
		s.display = &c
	case presentation.KindHide:
		s.display = nil
	case presentation.KindPlayAudio:
		c := cmd
		s.audio = &c
	case presentation.KindStopAudio:
		if s.audio != nil && s.audio.Audio == cmd.Audio {
			s.audio = nil
		}
	case presentation.KindAddScale:
		if cmd.Vector != nil {
			s.scales[cmd.Object] = s.scales[cmd.Object].Add(*cmd.Vector)
		}
	case presentation.KindSetOffset, presentation.KindSetPos, presentation.KindSetActive:
		s.objects[string(cmd.Kind)+"/"+cmd.Object] = cmd
	}
}

// snapshot orders object state by key so every joiner sees the same sequence.
func (s *scene) snapshot() []presentation.Command {
	var out []presentation.Command

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, s.objects[k])
	}

	objects := make([]string, 0, len(s.scales))
	for o := range s.scales {
		objects = append(objects, o)
	}
	sort.Strings(objects)
	for _, o := range objects {
		v := s.scales[o]
		out = append(out, presentation.Command{Kind: presentation.KindAddScale, Object: o, Vector: &v})
	}

	if s.display != nil {
		out = append(out, *s.display)
	} else {
		out = append(out, presentation.Command{Kind: presentation.KindHide})
	}
	if s.audio != nil {
		out = append(out, *s.audio)
	}
	return out
}

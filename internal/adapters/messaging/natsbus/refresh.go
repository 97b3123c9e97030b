// Package natsbus conecta el refresh del snapshot a un subject NATS: el
// sistema de registro publica cuando cambian los datos y la API recarga.
package natsbus

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"herd-pedigree/internal/domain/pedigree"
	"herd-pedigree/internal/platform/logger"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

const DefaultSubject = "pedigree.refresh"

// RefreshRequest es el payload opcional del mensaje. Un cuerpo vacío también dispara el refresh.
type RefreshRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RefreshReply se publica al reply subject cuando el publisher usa request/reply.
type RefreshReply struct {
	OK         bool   `json:"ok"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Animals    int    `json:"animals,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ReloadFunc func(ctx context.Context) (pedigree.SnapshotInfo, error)

type Refresher struct {
	reload  ReloadFunc
	log     logger.Logger
	timeout time.Duration
	publish func(subject string, data []byte) error
}

func NewRefresher(reload ReloadFunc, log logger.Logger, timeout time.Duration) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Refresher{reload: reload, log: log.With(map[string]any{"component": "nats_refresh"}), timeout: timeout}
}

// Subscribe registra el handler en subject usando nc.
func (r *Refresher) Subscribe(nc *nats.Conn, subject string) (*nats.Subscription, error) {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	r.publish = nc.Publish
	return nc.Subscribe(subject, r.Handle)
}

// Handle procesa un mensaje de refresh. Payload malformado se loguea y se ignora.
func (r *Refresher) Handle(msg *nats.Msg) {
	var req RefreshRequest
	if len(strings.TrimSpace(string(msg.Data))) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			r.log.Warn("dropping malformed refresh message", map[string]any{"subject": msg.Subject, "error": err.Error()})
			return
		}
	}

	ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*headerCarrier)(msg))
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	info, err := r.reload(ctx)
	reply := RefreshReply{OK: err == nil, SnapshotID: info.ID, Animals: info.Animals}
	if err != nil {
		reply.Error = err.Error()
	} else {
		r.log.Info("snapshot refreshed from bus", map[string]any{"reason": req.Reason, "snapshot_id": info.ID})
	}

	if msg.Reply == "" || r.publish == nil {
		return
	}
	data, _ := json.Marshal(reply)
	if err := r.publish(msg.Reply, data); err != nil {
		r.log.Warn("refresh reply failed", map[string]any{"error": err.Error()})
	}
}

// headerCarrier adapta los headers de nats.Msg a propagation.TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

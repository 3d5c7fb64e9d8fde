// Package audit implements the fire-and-forget activity log sinks. Every
// implementation swallows its own failures: a broken sink must never abort
// the lead operation that produced the entry.
package audit

import "context"

type Entry struct {
	ActorID   *int64 `json:"actor_id,omitempty"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

type Recorder interface {
	Record(ctx context.Context, actorID *int64, action, details string)
}

// NopRecorder drops every entry. Used in tests and when no sink is wired.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *int64, string, string) {}

// MultiRecorder fans one entry out to several sinks.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ctx context.Context, actorID *int64, action, details string) {
	for _, r := range m {
		r.Record(ctx, actorID, action, details)
	}
}

type ctxKey int

const clientIPKey ctxKey = iota

// WithClientIP stashes the request's client address so sinks can attribute
// the entry without a handle on the request itself.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

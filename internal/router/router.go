// Package router dispatches inbound chat events against the connection
// and group registries. It owns no state of its own: every decision is a
// registry lookup followed by fire-and-forget deliveries.
package router

import (
	"log/slog"

	"github.com/samber/lo"

	"chat-hub/internal/registry"
	"chat-hub/pkg/chat"
)

// Sender identity used when a connection acts before registering.
// Registration order is not enforced, so this is a degradation, not an
// error.
const (
	AnonymousName   = "Anonymous"
	AnonymousMobile = "?"
)

// Sender hands a payload to the transport layer for delivery. Best
// effort: no return value, no failure signal, and it must not block on a
// slow destination.
type Sender interface {
	Deliver(id registry.ConnID, payload []byte)
}

// Recorder receives presence-lifecycle notifications for the audit
// trail. Failures are logged and swallowed; routing never depends on it.
type Recorder interface {
	LogRegistration(id registry.ConnID, name, mobile string) error
	LogDisconnect(id registry.ConnID, mobile string) error
	LogGroupJoin(id registry.ConnID, group string) error
	LogGroupCreation(id registry.ConnID, group string) error
}

// Router is the single entry point the transport layer calls on connect,
// inbound frame, and disconnect.
type Router struct {
	users  *registry.Users
	groups *registry.Groups
	sender Sender
	rec    Recorder
	log    *slog.Logger
}

// New builds a Router over the two registries. rec may be nil to run
// without an audit trail.
func New(users *registry.Users, groups *registry.Groups, sender Sender, rec Recorder, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{users: users, groups: groups, sender: sender, rec: rec, log: log}
}

// OnConnect is called when a transport session opens. The connection
// stays unknown to both registries until a register event arrives.
func (r *Router) OnConnect(id registry.ConnID) {
	r.log.Debug("connection opened", "conn", id)
}

// OnEvent handles one inbound frame. Malformed and unrecognized frames
// are logged and dropped; they never fail the connection.
func (r *Router) OnEvent(id registry.ConnID, raw []byte) {
	evt, err := chat.ParseEvent(raw)
	if err != nil {
		r.log.Warn("dropping malformed event", "conn", id, "err", err)
		return
	}

	switch evt.Type {
	case chat.TypeRegister:
		r.handleRegister(id, evt.Register)
	case chat.TypeJoinGroup:
		r.handleJoinGroup(id, evt.JoinGroup)
	case chat.TypeMessage:
		r.handleMessage(id, evt.Message)
	default:
		r.log.Debug("dropping unrecognized event", "conn", id, "type", evt.Type)
	}
}

// OnDisconnect is the terminal signal for a connection: announce the
// departure to everyone still registered, then scrub group memberships.
// No further events arrive for id once this returns.
func (r *Router) OnDisconnect(id registry.ConnID) {
	if user, ok := r.users.Unregister(id); ok {
		payload := chat.UserLeft(user.Mobile)
		for _, other := range r.users.IDs(registry.None) {
			r.sender.Deliver(other, payload)
		}
		r.record(func(rec Recorder) error { return rec.LogDisconnect(id, user.Mobile) })
	}
	r.groups.LeaveAll(id)
	r.log.Debug("connection closed", "conn", id)
}

// handleRegister binds the connection to a user, replies with the
// acknowledgement and the group/user snapshots in that order, then
// announces the newcomer to every other registered connection. The
// registering connection does not receive its own user_joined.
func (r *Router) handleRegister(id registry.ConnID, p *chat.RegisterPayload) {
	r.users.Register(id, p.Name, p.Mobile)

	r.sender.Deliver(id, chat.Registered(true))
	r.sender.Deliver(id, chat.GroupList(r.groups.Names()))

	others := lo.Map(r.users.All(id), func(u registry.User, _ int) chat.UserInfo {
		return chat.UserInfo{Name: u.Name, Mobile: u.Mobile}
	})
	r.sender.Deliver(id, chat.UserList(others))

	joined := chat.UserJoined(chat.UserInfo{Name: p.Name, Mobile: p.Mobile})
	for _, other := range r.users.IDs(id) {
		r.sender.Deliver(other, joined)
	}

	r.record(func(rec Recorder) error { return rec.LogRegistration(id, p.Name, p.Mobile) })
	r.log.Info("user registered", "conn", id, "name", p.Name, "mobile", p.Mobile)
}

// handleJoinGroup joins the group (creating it on first use), confirms
// to the requester only, and announces a brand-new group to every
// registered connection including the joiner.
func (r *Router) handleJoinGroup(id registry.ConnID, p *chat.JoinGroupPayload) {
	created := r.groups.Join(p.GroupName, id)

	r.sender.Deliver(id, chat.JoinedGroup(p.GroupName))
	r.record(func(rec Recorder) error { return rec.LogGroupJoin(id, p.GroupName) })

	if !created {
		return
	}

	announce := chat.GroupCreated(p.GroupName)
	for _, conn := range r.users.IDs(registry.None) {
		r.sender.Deliver(conn, announce)
	}
	r.record(func(rec Recorder) error { return rec.LogGroupCreation(id, p.GroupName) })
	r.log.Info("group created", "group", p.GroupName, "conn", id)
}

// handleMessage resolves the destination, group name first, then user
// mobile. Group delivery includes the sender when it is a member; an
// unknown destination drops the message silently.
func (r *Router) handleMessage(id registry.ConnID, p *chat.MessagePayload) {
	from, fromMobile := AnonymousName, AnonymousMobile
	if user, ok := r.users.Lookup(id); ok {
		from, fromMobile = user.Name, user.Mobile
	}

	payload := chat.Message(from, fromMobile, p.To, p.Content)

	if r.groups.Exists(p.To) {
		for _, member := range r.groups.Members(p.To) {
			r.sender.Deliver(member, payload)
		}
		return
	}

	if target, ok := r.users.FindByMobile(p.To); ok {
		r.sender.Deliver(target, payload)
		return
	}

	r.log.Debug("dropping message to unknown destination", "conn", id, "to", p.To)
}

func (r *Router) record(fn func(Recorder) error) {
	if r.rec == nil {
		return
	}
	if err := fn(r.rec); err != nil {
		r.log.Warn("audit write failed", "err", err)
	}
}

package chat

import (
	"encoding/json"
	"fmt"
)

// Frame type discriminators. The "type" field of every frame carries one
// of these; field names are the stable wire contract.
const (
	TypeRegister     = "register"
	TypeRegistered   = "registered"
	TypeGroupList    = "group_list"
	TypeUserList     = "user_list"
	TypeUserJoined   = "user_joined"
	TypeUserLeft     = "user_left"
	TypeJoinGroup    = "join_group"
	TypeJoinedGroup  = "joined_group"
	TypeGroupCreated = "group_created"
	TypeMessage      = "message"
)

// UserInfo is the wire shape of one online user.
type UserInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// RegisterPayload binds a connection to a user identity.
type RegisterPayload struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// JoinGroupPayload asks to join a group, creating it on first use.
type JoinGroupPayload struct {
	GroupName string `json:"groupName"`
}

// MessagePayload addresses a group by name or a user by mobile.
type MessagePayload struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// Event is the decoded form of one inbound frame. Exactly one payload
// pointer is set for the recognized inbound kinds (register, join_group,
// message); any other type decodes to an Event carrying only Type, which
// callers are expected to drop.
type Event struct {
	Type      string
	Register  *RegisterPayload
	JoinGroup *JoinGroupPayload
	Message   *MessagePayload
}

type envelope struct {
	Type string `json:"type"`
}

// ParseEvent decodes a raw inbound frame into an Event. A frame that is
// not a JSON object with a string "type" field is a parse failure; an
// unknown type is not.
func ParseEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("decode event envelope: %w", err)
	}

	evt := Event{Type: env.Type}

	switch env.Type {
	case TypeRegister:
		var p RegisterPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decode register payload: %w", err)
		}
		evt.Register = &p
	case TypeJoinGroup:
		var p JoinGroupPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decode join_group payload: %w", err)
		}
		evt.JoinGroup = &p
	case TypeMessage:
		var p MessagePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Event{}, fmt.Errorf("decode message payload: %w", err)
		}
		evt.Message = &p
	}

	return evt, nil
}

type registeredFrame struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
}

type groupListFrame struct {
	Type   string   `json:"type"`
	Groups []string `json:"groups"`
}

type userListFrame struct {
	Type  string     `json:"type"`
	Users []UserInfo `json:"users"`
}

type userJoinedFrame struct {
	Type string   `json:"type"`
	User UserInfo `json:"user"`
}

type userLeftFrame struct {
	Type   string `json:"type"`
	Mobile string `json:"mobile"`
}

type groupNameFrame struct {
	Type      string `json:"type"`
	GroupName string `json:"groupName"`
}

type messageFrame struct {
	Type       string `json:"type"`
	To         string `json:"to"`
	Content    string `json:"content"`
	From       string `json:"from"`
	FromMobile string `json:"fromMobile"`
}

// Registered acknowledges a register event.
func Registered(success bool) []byte {
	return encode(registeredFrame{Type: TypeRegistered, Success: success})
}

// GroupList is the snapshot of all known group names.
func GroupList(groups []string) []byte {
	if groups == nil {
		groups = []string{}
	}
	return encode(groupListFrame{Type: TypeGroupList, Groups: groups})
}

// UserList is the snapshot of currently online users.
func UserList(users []UserInfo) []byte {
	if users == nil {
		users = []UserInfo{}
	}
	return encode(userListFrame{Type: TypeUserList, Users: users})
}

// UserJoined announces a newly registered user.
func UserJoined(user UserInfo) []byte {
	return encode(userJoinedFrame{Type: TypeUserJoined, User: user})
}

// UserLeft announces that the user behind a mobile went offline.
func UserLeft(mobile string) []byte {
	return encode(userLeftFrame{Type: TypeUserLeft, Mobile: mobile})
}

// JoinedGroup confirms a join to the requesting connection.
func JoinedGroup(name string) []byte {
	return encode(groupNameFrame{Type: TypeJoinedGroup, GroupName: name})
}

// GroupCreated announces a group seen for the first time.
func GroupCreated(name string) []byte {
	return encode(groupNameFrame{Type: TypeGroupCreated, GroupName: name})
}

// Message is an outbound chat message carrying the resolved sender.
func Message(from, fromMobile, to, content string) []byte {
	return encode(messageFrame{
		Type:       TypeMessage,
		To:         to,
		Content:    content,
		From:       from,
		FromMobile: fromMobile,
	})
}

func encode(frame any) []byte {
	data, _ := json.Marshal(frame)
	return data
}

// Command client is a minimal terminal chat client for poking at a
// running server: it registers, joins groups, and sends messages from
// stdin.
//
//	/join <group>
//	/msg <group-or-mobile> <content>
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"chat-hub/pkg/chat"
)

func main() {
	addr := flag.String("addr", "localhost:9876", "server host:port")
	name := flag.String("name", "guest", "display name")
	mobile := flag.String("mobile", "", "mobile used as your direct-message address")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial: ", err)
	}
	defer conn.Close()

	if err := send(conn, map[string]string{"type": chat.TypeRegister, "name": *name, "mobile": *mobile}); err != nil {
		log.Fatal("register: ", err)
	}

	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Println("read: ", err)
				os.Exit(0)
			}
			printFrame(raw)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "/join "):
			group := strings.TrimSpace(strings.TrimPrefix(line, "/join "))
			err = send(conn, map[string]string{"type": chat.TypeJoinGroup, "groupName": group})
		case strings.HasPrefix(line, "/msg "):
			rest := strings.TrimPrefix(line, "/msg ")
			to, content, ok := strings.Cut(rest, " ")
			if !ok {
				fmt.Println("usage: /msg <group-or-mobile> <content>")
				continue
			}
			err = send(conn, map[string]string{"type": chat.TypeMessage, "to": to, "content": content})
		default:
			fmt.Println("commands: /join <group>, /msg <to> <content>")
		}
		if err != nil {
			log.Fatal("write: ", err)
		}
	}
}

func send(conn *websocket.Conn, frame map[string]string) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func printFrame(raw []byte) {
	var frame struct {
		Type       string   `json:"type"`
		From       string   `json:"from"`
		FromMobile string   `json:"fromMobile"`
		To         string   `json:"to"`
		Content    string   `json:"content"`
		Mobile     string   `json:"mobile"`
		GroupName  string   `json:"groupName"`
		Groups     []string `json:"groups"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		fmt.Printf("<< %s\n", raw)
		return
	}

	switch frame.Type {
	case chat.TypeMessage:
		fmt.Printf("[%s] %s (%s): %s\n", frame.To, frame.From, frame.FromMobile, frame.Content)
	case chat.TypeUserLeft:
		fmt.Printf("* %s went offline\n", frame.Mobile)
	case chat.TypeGroupCreated:
		fmt.Printf("* group %q created\n", frame.GroupName)
	case chat.TypeJoinedGroup:
		fmt.Printf("* joined %q\n", frame.GroupName)
	case chat.TypeGroupList:
		fmt.Printf("* groups: %s\n", strings.Join(frame.Groups, ", "))
	default:
		fmt.Printf("<< %s\n", raw)
	}
}

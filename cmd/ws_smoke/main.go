package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	"github.com/gorilla/websocket"
)

// Smoke test against a running server: sign in, open /ws, create and delete a
// task, and check that both events arrive.
func main() {
	base := flag.String("base", "http://127.0.0.1:3000", "server base URL")
	email := flag.String("email", "smoke@example.com", "email")
	password := flag.String("password", "password123", "password")
	flag.Parse()

	token, err := session(*base, *email, *password)
	if err != nil {
		logger.Fatal("auth failed", "error", err)
	}

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial failed", "url", wsURL, "error", err)
	}
	defer conn.Close()

	expect(conn, "ready")

	task := map[string]any{
		"name":      "smoke task",
		"category":  map[string]any{"name": "Smoke", "icon": "flame", "color": "#888888"},
		"startDate": time.Now().UTC().Format("2006-01-02"),
		"endDate":   time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02"),
		"priority":  map[string]any{"value": 1, "isDefault": true},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := call(http.MethodPost, *base+"/api/tasks", token, task, &created); err != nil {
		logger.Fatal("create task failed", "error", err)
	}
	expect(conn, "task.created")

	if err := call(http.MethodDelete, *base+"/api/tasks/"+created.ID, token, nil, nil); err != nil {
		logger.Fatal("delete task failed", "error", err)
	}
	expect(conn, "task.deleted")

	logger.Info("smoke test finished")
}

func session(base, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	creds := map[string]string{"name": "Smoke", "email": email, "password": password}
	if err := call(http.MethodPost, base+"/api/auth/signup", "", creds, &out); err == nil {
		return out.Token, nil
	}
	if err := call(http.MethodPost, base+"/api/auth/signin", "", creds, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func call(method, u, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, u, res.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

func expect(conn *websocket.Conn, eventType string) {
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		logger.Fatal("read failed", "want", eventType, "error", err)
	}
	var obj struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(msg, &obj)
	if obj.Type != eventType {
		logger.Fatal("unexpected event", "want", eventType, "got", string(msg))
	}
	logger.Info("event received", "type", obj.Type)
}

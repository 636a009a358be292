// Package main provides a CI-friendly HTTP smoke test for the gate auth flow.
//
// It validates:
//   - register -> 200 with confirmation message
//   - duplicate register -> 400 email_taken
//   - login -> 200 with token
//   - login with wrong password -> 401 invalid_credentials
//   - GET /auth/me with token -> 200 with the registered email
//   - GET /auth/me with garbage token -> 401
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const maxReadBytes = 1 << 20 // 1MiB

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8080", "Server base URL")
		email    = flag.String("email", "", "Email to register (default: generated)")
		password = flag.String("password", "hunter2-smoke", "Password to register with")
		timeout  = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}

	addr := strings.TrimRight(*baseURL, "/")
	who := *email
	if who == "" {
		who = fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())
	}

	root := context.Background()
	client := &http.Client{}

	mustRegister(root, client, addr, who, *password, *timeout)
	if *verbose {
		fmt.Printf("registered: %s\n", who)
	}

	mustRegisterConflict(root, client, addr, who, *password, *timeout)

	token := mustLogin(root, client, addr, who, *password, *timeout)
	if *verbose {
		fmt.Printf("login ok: token_len=%d\n", len(token))
	}

	mustLoginRejected(root, client, addr, who, *password+"-wrong", *timeout)

	mustMe(root, client, addr, token, who, *timeout)

	mustMeRejected(root, client, addr, "not-a-token", *timeout)

	fmt.Printf("OK: email=%s\n", who)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}
	return nil
}

func mustRegister(parent context.Context, client *http.Client, addr, email, password string, stepTimeout time.Duration) {
	status, body := mustPostJSON(parent, client, addr+"/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "", stepTimeout)

	if status != http.StatusOK {
		fatalf("register: status=%d body=%s", status, body)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("register: bad json: %v", err)
	}
	if strings.TrimSpace(resp.Message) == "" {
		fatalf("register: missing confirmation message")
	}
}

func mustRegisterConflict(parent context.Context, client *http.Client, addr, email, password string, stepTimeout time.Duration) {
	status, body := mustPostJSON(parent, client, addr+"/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "", stepTimeout)

	if status != http.StatusBadRequest {
		fatalf("duplicate register: status=%d want=400 body=%s", status, body)
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		fatalf("duplicate register: bad json: %v", err)
	}
	if env.Error.Code != "email_taken" {
		fatalf("duplicate register: code=%q want=email_taken", env.Error.Code)
	}
}

func mustLogin(parent context.Context, client *http.Client, addr, email, password string, stepTimeout time.Duration) string {
	status, body := mustPostJSON(parent, client, addr+"/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "", stepTimeout)

	if status != http.StatusOK {
		fatalf("login: status=%d body=%s", status, body)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("login: bad json: %v", err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		fatalf("login: missing token")
	}
	return resp.Token
}

func mustLoginRejected(parent context.Context, client *http.Client, addr, email, password string, stepTimeout time.Duration) {
	status, body := mustPostJSON(parent, client, addr+"/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "", stepTimeout)

	if status != http.StatusUnauthorized {
		fatalf("wrong-password login: status=%d want=401 body=%s", status, body)
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		fatalf("wrong-password login: bad json: %v", err)
	}
	if env.Error.Code != "invalid_credentials" {
		fatalf("wrong-password login: code=%q want=invalid_credentials", env.Error.Code)
	}
}

func mustMe(parent context.Context, client *http.Client, addr, token, email string, stepTimeout time.Duration) {
	status, body := mustGet(parent, client, addr+"/auth/me", token, stepTimeout)

	if status != http.StatusOK {
		fatalf("me: status=%d body=%s", status, body)
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		fatalf("me: bad json: %v", err)
	}
	if resp.Name != email {
		fatalf("me: name=%q want=%q", resp.Name, email)
	}
}

func mustMeRejected(parent context.Context, client *http.Client, addr, token string, stepTimeout time.Duration) {
	status, body := mustGet(parent, client, addr+"/auth/me", token, stepTimeout)

	if status != http.StatusUnauthorized {
		fatalf("garbage-token me: status=%d want=401 body=%s", status, body)
	}
}

func mustPostJSON(parent context.Context, client *http.Client, target string, payload map[string]string, token string, stepTimeout time.Duration) (int, []byte) {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	b, err := json.Marshal(payload)
	if err != nil {
		fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
	if err != nil {
		fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return mustDo(client, req)
}

func mustGet(parent context.Context, client *http.Client, target, token string, stepTimeout time.Duration) (int, []byte) {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return mustDo(client, req)
}

func mustDo(client *http.Client, req *http.Request) (int, []byte) {
	resp, err := client.Do(req)
	if err != nil {
		fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadBytes))
	if err != nil {
		fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}

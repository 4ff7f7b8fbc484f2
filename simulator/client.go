package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Cameron-Kurotori/safesnake/engine"
	"github.com/Cameron-Kurotori/safesnake/sdk"
)

type BattlesnakeClient interface {
	Info() (info sdk.BattlesnakeInfoResponse, err error)
	Start(state sdk.GameState) error
	End(state sdk.GameState) error
	Move(state sdk.GameState) (sdk.BattlesnakeMoveResponse, error)
}

type client struct {
	baseURL string
	client  *http.Client
}

// NewClient talks to a snake server over HTTP. timeout bounds every request.
func NewClient(host, port string, timeout time.Duration) BattlesnakeClient {
	return &client{
		baseURL: fmt.Sprintf("http://%s:%s", host, port),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *client) request(uri string, method string, body []byte) ([]byte, *http.Response, error) {
	r, err := http.NewRequest(method, c.baseURL+uri, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(r)
	if err != nil {
		return nil, resp, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, err
	}
	if resp.StatusCode >= 300 {
		return responseBody, resp, fmt.Errorf("non successful code received status_code=%d response_body=%s", resp.StatusCode, string(responseBody))
	}
	return responseBody, resp, nil
}

func (c *client) Info() (info sdk.BattlesnakeInfoResponse, err error) {
	body, _, err := c.request("/", http.MethodGet, nil)
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(body, &info)
	return info, err
}

func (c *client) post(uri string, state sdk.GameState) ([]byte, error) {
	reqBody, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	body, _, err := c.request(uri, http.MethodPost, reqBody)
	return body, err
}

func (c *client) Start(state sdk.GameState) error {
	_, err := c.post("/start", state)
	return err
}

func (c *client) End(state sdk.GameState) error {
	_, err := c.post("/end", state)
	return err
}

func (c *client) Move(state sdk.GameState) (move sdk.BattlesnakeMoveResponse, err error) {
	body, err := c.post("/move", state)
	if err != nil {
		return move, err
	}
	err = json.Unmarshal(body, &move)
	return move, err
}

// localClient runs the engine in process instead of going over HTTP.
type localClient struct{}

func NewLocalClient() BattlesnakeClient {
	return localClient{}
}

func (localClient) Info() (sdk.BattlesnakeInfoResponse, error) {
	return sdk.BattlesnakeInfoResponse{APIVersion: "1", Author: "local"}, nil
}

func (localClient) Start(sdk.GameState) error { return nil }
func (localClient) End(sdk.GameState) error   { return nil }

func (localClient) Move(state sdk.GameState) (sdk.BattlesnakeMoveResponse, error) {
	dir := engine.DecideMove(engine.NewTurnContext(state))
	return sdk.BattlesnakeMoveResponse{Move: dir.Move()}, nil
}

// stateRecorder keeps every state a snake was asked to move from.
type stateRecorder struct {
	BattlesnakeClient
	States []sdk.GameState
}

func (s *stateRecorder) Move(state sdk.GameState) (sdk.BattlesnakeMoveResponse, error) {
	s.States = append(s.States, state)
	return s.BattlesnakeClient.Move(state)
}

func RecordStates(client BattlesnakeClient) *stateRecorder {
	return &stateRecorder{
		BattlesnakeClient: client,
	}
}

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
)

// RemoteStore implements Store against a todos HTTP API server.
type RemoteStore struct {
	mu      sync.Mutex
	baseURL string
	client  *http.Client
}

// compile-time check
var _ Store = (*RemoteStore)(nil)

func NewRemote(baseURL string) *RemoteStore {
	return NewRemoteWithClient(baseURL, &http.Client{Timeout: 30 * time.Second})
}

func NewRemoteWithClient(baseURL string, client *http.Client) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Policy accepts any id; the server validates its shape.
func (rs *RemoteStore) Policy() id.Policy { return id.Opaque{} }

func (rs *RemoteStore) Close() error {
	rs.client.CloseIdleConnections()
	return nil
}

// --- HTTP helpers ---

func (rs *RemoteStore) doJSON(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rs.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := rs.client.Do(req)
	if err != nil {
		return nil, unavailable(op, err)
	}
	return resp, nil
}

// apiError is the server's error body. Message is a string, or a list of
// strings for validation failures.
type apiError struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

func (e *apiError) messages() []string {
	var list []string
	if err := json.Unmarshal(e.Message, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(e.Message, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// checkResponse turns an error status into the matching store error. The
// caller still owns resp.Body.
func checkResponse(op string, resp *http.Response, todoID id.ID) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var apiErr apiError
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	msgs := apiErr.messages()

	switch {
	case resp.StatusCode == http.StatusNotFound && !todoID.IsZero():
		return notFound(todoID)
	case resp.StatusCode == http.StatusBadRequest:
		msg := "invalid request"
		if len(msgs) > 0 {
			msg = strings.Join(msgs, "; ")
		}
		return &model.ValidationError{Msg: msg}
	case resp.StatusCode >= 500:
		return unavailable(op, fmt.Errorf("server returned %d", resp.StatusCode))
	}
	if len(msgs) > 0 {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("API error %d", resp.StatusCode)
}

func decodeResponse[T any](op string, resp *http.Response, todoID id.ID) (T, error) {
	defer resp.Body.Close()
	var zero T

	if err := checkResponse(op, resp, todoID); err != nil {
		return zero, err
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, unavailable(op, fmt.Errorf("decoding response: %w", err))
	}
	return out, nil
}

func todoPath(todoID id.ID) string {
	return "/todos/" + url.PathEscape(todoID.String())
}

// --- Todos ---

func (rs *RemoteStore) Create(ctx context.Context, task string) (*model.Todo, error) {
	if err := model.ValidateTask(task); err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resp, err := rs.doJSON(ctx, "create", http.MethodPost, "/todos", map[string]string{"task": task})
	if err != nil {
		return nil, err
	}
	t, err := decodeResponse[model.Todo]("create", resp, id.ID{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (rs *RemoteStore) FindAll(ctx context.Context) ([]model.Todo, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resp, err := rs.doJSON(ctx, "find all", http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}
	todos, err := decodeResponse[[]model.Todo]("find all", resp, id.ID{})
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (rs *RemoteStore) FindOne(ctx context.Context, todoID id.ID) (*model.Todo, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resp, err := rs.doJSON(ctx, "find", http.MethodGet, todoPath(todoID), nil)
	if err != nil {
		return nil, err
	}
	t, err := decodeResponse[model.Todo]("find", resp, todoID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (rs *RemoteStore) Update(ctx context.Context, todoID id.ID, upd model.TodoUpdate) (*model.Todo, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resp, err := rs.doJSON(ctx, "update", http.MethodPatch, todoPath(todoID), upd)
	if err != nil {
		return nil, err
	}
	t, err := decodeResponse[model.Todo]("update", resp, todoID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (rs *RemoteStore) Remove(ctx context.Context, todoID id.ID) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	resp, err := rs.doJSON(ctx, "remove", http.MethodDelete, todoPath(todoID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkResponse("remove", resp, todoID)
}

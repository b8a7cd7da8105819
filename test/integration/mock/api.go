package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ApiRequest is one call received by ApiMock.
type ApiRequest struct {
	Headers http.Header
	Body    map[string]any
}

type apiResponse struct {
	status int
	body   any
}

// ApiMock stands in for a third-party JSON API. Responses are configured per
// method and path, either for the n-th call or as a default.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]ApiRequest
	responses map[string]map[int]apiResponse
	defaults  map[string]apiResponse
}

// NewApiServer creates an unstarted mock.
func NewApiServer() *ApiMock {
	return &ApiMock{
		requests:  map[string][]ApiRequest{},
		responses: map[string]map[int]apiResponse{},
		defaults:  map[string]apiResponse{},
	}
}

// Start begins serving on a random local port.
func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

// Close stops the server.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// GetUrl returns the base URL of the running server.
func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], ApiRequest{Headers: r.Header.Clone(), Body: request})
	resp, ok := a.responses[key][index]
	if !ok {
		resp, ok = a.defaults[key]
	}
	a.mu.Unlock()

	if !ok {
		resp = apiResponse{status: http.StatusOK, body: map[string]any{}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse configures the reply to the index-th call of method and path.
// An index of -1 sets the default reply.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaults[key] = apiResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]apiResponse{}
	}
	a.responses[key][index] = apiResponse{status: status, body: response}
}

// GetRequests returns the calls received for method and path, oldest first.
func (a *ApiMock) GetRequests(method, path string) []ApiRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ApiRequest(nil), a.requests[method+path]...)
}

// Reset forgets received calls and configured replies.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = map[string][]ApiRequest{}
	a.responses = map[string]map[int]apiResponse{}
	a.defaults = map[string]apiResponse{}
}

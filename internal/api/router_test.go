package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/prompt-playground/internal/api"
	"github.com/Rrens/prompt-playground/internal/config"
	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/llm"
	"github.com/Rrens/prompt-playground/internal/repository/memory"
	"github.com/Rrens/prompt-playground/internal/security"
)

type fakeProvider struct {
	reply   func(req llm.ChatRequest) (*llm.ChatResponse, error)
	lastCtx context.Context
}

func (p *fakeProvider) Name() string              { return "openrouter" }
func (p *fakeProvider) AvailableModels() []string { return []string{llm.DefaultModelID} }
func (p *fakeProvider) DefaultModel() string      { return llm.DefaultModelID }
func (p *fakeProvider) IsConfigured() bool        { return true }

func (p *fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.lastCtx = ctx
	return p.reply(req)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T, cfg *config.Config, provider *fakeProvider) *testServer {
	t.Helper()
	return newTestServerWithBlobs(t, cfg, provider, memory.NewStore())
}

func newTestServerWithBlobs(t *testing.T, cfg *config.Config, provider *fakeProvider, blobs domain.BlobStore) *testServer {
	t.Helper()
	router := llm.NewRouter("openrouter")
	router.RegisterProvider(provider)

	handler := api.NewRouter(cfg, api.Dependencies{
		Blobs: blobs,
		LLM:   router,
	})
	return &testServer{t: t, handler: handler}
}

// readOnlyBlobs serves reads from the wrapped store and rejects every write
type readOnlyBlobs struct {
	domain.BlobStore
}

func (readOnlyBlobs) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		LLM:    config.LLMConfig{Temperature: 0.7},
	}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	isEnvelope := rec.Header().Get("Content-Type") == "application/json" && rec.Header().Get("Content-Disposition") == ""
	if isEnvelope && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(), &fakeProvider{})

	rec, env := srv.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = srv.do(http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = srv.do(http.MethodGet, "/api/v1/models", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	models := decode[map[string]any](t, env.Data)
	assert.Equal(t, llm.DefaultModelID, models["default_model"])
}

func TestPlaygroundFlow(t *testing.T) {
	var lastRequest llm.ChatRequest
	provider := &fakeProvider{reply: func(req llm.ChatRequest) (*llm.ChatResponse, error) {
		lastRequest = req
		return &llm.ChatResponse{
			Content: []any{map[string]any{"type": "text", "text": "Ahoy!"}},
			Usage:   map[string]any{"prompt_tokens": 12, "completion_tokens": 3},
		}, nil
	}}
	srv := newTestServer(t, testConfig(), provider)

	rec, env := srv.do(http.MethodPost, "/api/v1/prompts", map[string]string{"name": "Pirate Bot", "content": "Talk like a pirate."})
	require.Equal(t, http.StatusOK, rec.Code)
	prompt := decode[map[string]any](t, env.Data)
	promptID := prompt["id"].(string)

	rec, env = srv.do(http.MethodPost, "/api/v1/sessions", map[string]string{"prompt_id": promptID})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[map[string]any](t, env.Data)
	sessionID := session["id"].(string)
	assert.Equal(t, "Talk like a pirate.", session["systemPrompt"])

	rec, env = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", map[string]string{"content": "  hello  "})
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[struct {
		Turn  map[string]any `json:"turn"`
		Usage map[string]int `json:"usage"`
	}](t, env.Data)
	assert.Equal(t, "Ahoy!", reply.Turn["content"])
	assert.Equal(t, 15, reply.Usage["totalTokens"])

	require.Len(t, lastRequest.Messages, 2)
	assert.Equal(t, "system", lastRequest.Messages[0].Role)
	assert.Equal(t, "hello", lastRequest.Messages[1].Content)
	assert.Equal(t, llm.DefaultModelID, lastRequest.Model)

	rec, _ = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/save", map[string]string{"notes": "first run"})
	require.Equal(t, http.StatusCreated, rec.Code)
	conv := decode[map[string]any](t, env.Data)
	assert.Equal(t, promptID, conv["promptId"])
	assert.Equal(t, "Pirate Bot", conv["promptName"])

	rec, env = srv.do(http.MethodGet, "/api/v1/conversations?prompt_id="+promptID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	rec, env = srv.do(http.MethodGet, "/api/v1/conversations/"+conv["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, env.Data)["messages"], 2)

	rec, _ = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/reset", map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/reset", map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, env.Data)["turns"])

	rec, _ = srv.do(http.MethodDelete, "/api/v1/conversations", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(http.MethodGet, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, env.Data))
}

func TestProviderFailureBecomesErrorTurn(t *testing.T) {
	provider := &fakeProvider{reply: func(req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("upstream 502")
	}}
	srv := newTestServer(t, testConfig(), provider)

	empty := ""
	rec, env := srv.do(http.MethodPost, "/api/v1/sessions", map[string]*string{"system_prompt": &empty})
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode[map[string]any](t, env.Data)["id"].(string)

	rec, env = srv.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", map[string]string{"content": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[struct {
		Turn map[string]any `json:"turn"`
	}](t, env.Data)
	assert.Equal(t, "Error: upstream 502", reply.Turn["content"])
	assert.Equal(t, true, reply.Turn["error"])

	rec, env = srv.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[map[string]any](t, env.Data)
	assert.Equal(t, "idle", snap["state"])
	assert.Len(t, snap["turns"], 2)
}

func TestSendMessageSurvivesClientDisconnect(t *testing.T) {
	provider := &fakeProvider{reply: func(req llm.ChatRequest) (*llm.ChatResponse, error) {
		return &llm.ChatResponse{Content: "still here"}, nil
	}}
	srv := newTestServer(t, testConfig(), provider)

	rec, env := srv.do(http.MethodPost, "/api/v1/sessions", map[string]string{"system_prompt": "sys"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode[map[string]any](t, env.Data)["id"].(string)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", strings.NewReader(`{"content":"hi"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, provider.lastCtx)
	assert.NoError(t, provider.lastCtx.Err())

	rec, env = srv.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "still here")
}

func TestPromptPortability(t *testing.T) {
	srv := newTestServer(t, testConfig(), &fakeProvider{})

	rec, env := srv.do(http.MethodPost, "/api/v1/prompts", map[string]string{"name": "Support Bot v2", "content": "Be kind."})
	require.Equal(t, http.StatusOK, rec.Code)
	promptID := decode[map[string]any](t, env.Data)["id"].(string)

	rec, _ = srv.do(http.MethodGet, "/api/v1/prompts/"+promptID+"/markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="support-bot-v2.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# Support Bot v2\n\n## System Prompt\n\nBe kind.\n\n", rec.Body.String())

	rec, _ = srv.do(http.MethodGet, "/api/v1/prompts/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()
	assert.Contains(t, exported, `"name": "Support Bot v2"`)

	rec, _ = srv.do(http.MethodPost, "/api/v1/prompts/import", `{"not": "an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(http.MethodGet, "/api/v1/prompts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	rec, env = srv.do(http.MethodPost, "/api/v1/prompts/import", `[{"id": 1, "name": "A", "content": "x"}, {"id": "2", "name": "A", "content": "y"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode[map[string]any](t, env.Data)["count"])

	rec, env = srv.do(http.MethodGet, "/api/v1/prompts/by-name/A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "x", decode[map[string]any](t, env.Data)["content"])

	rec, _ = srv.do(http.MethodGet, "/api/v1/prompts/"+promptID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportStorageFailure(t *testing.T) {
	srv := newTestServerWithBlobs(t, testConfig(), &fakeProvider{}, readOnlyBlobs{memory.NewStore()})

	rec, env := srv.do(http.MethodPost, "/api/v1/prompts/import", `[{"id": "1", "name": "A", "content": "x"}]`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)

	rec, _ = srv.do(http.MethodPost, "/api/v1/prompts/import", `{"not": "an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeUpload(t *testing.T) {
	srv := newTestServer(t, testConfig(), &fakeProvider{})

	upload := func(filename, content, save string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		if save != "" {
			require.NoError(t, mw.WriteField("save", save))
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts/decode", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("pirate.md", "```\nTalk like a pirate.\n```\n", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"pirate"`)
	assert.Contains(t, rec.Body.String(), `"strategy":"code_block"`)

	rec = upload("pirate.md", "# Pirate\n\n## System Prompt\n\nArr.\n", "true")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := srv.do(http.MethodGet, "/api/v1/prompts/by-name/Pirate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arr.", decode[map[string]any](t, env.Data)["content"])

	rec = upload("notes.txt", "hello", "")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = upload("empty.md", "# Only a title\n", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDraftAndSessionPrompt(t *testing.T) {
	srv := newTestServer(t, testConfig(), &fakeProvider{})

	rec, _ := srv.do(http.MethodPut, "/api/v1/draft", map[string]string{"content": "Draft v1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := srv.do(http.MethodPost, "/api/v1/sessions", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Draft v1", session["systemPrompt"])
	sessionID := session["id"].(string)

	rec, _ = srv.do(http.MethodPut, "/api/v1/sessions/"+sessionID+"/prompt", map[string]string{"system_prompt": "Draft v2"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = srv.do(http.MethodGet, "/api/v1/draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Draft v2", decode[map[string]string](t, env.Data)["content"])

	rec, _ = srv.do(http.MethodPut, "/api/v1/sessions/"+sessionID+"/prompt", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(http.MethodPut, "/api/v1/sessions/"+sessionID+"/model", map[string]string{"model": "anthropic/claude-sonnet-4.5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anthropic/claude-sonnet-4.5", decode[map[string]any](t, env.Data)["model"])

	rec, _ = srv.do(http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenEstimate(t *testing.T) {
	srv := newTestServer(t, testConfig(), &fakeProvider{})

	rec, env := srv.do(http.MethodPost, "/api/v1/tokens/estimate", map[string]string{"text": "You are a helpful assistant."})
	require.Equal(t, http.StatusOK, rec.Code)
	estimate := decode[map[string]any](t, env.Data)
	assert.Greater(t, estimate["tokens"], float64(0))
}

func TestAuthEnabled(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Auth = config.AuthConfig{
		Enabled:        true,
		JWTSecret:      "test-secret-key-with-32-chars!!",
		Username:       "admin",
		PasswordHash:   hash,
		AccessTokenTTL: time.Hour,
	}
	srv := newTestServer(t, cfg, &fakeProvider{})

	rec, _ := srv.do(http.MethodGet, "/api/v1/prompts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = srv.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := srv.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	srv.token = decode[map[string]any](t, env.Data)["access_token"].(string)

	rec, _ = srv.do(http.MethodGet, "/api/v1/prompts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

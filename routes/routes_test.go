package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jagman11/match--royale/models"
	"github.com/jagman11/match--royale/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopBucket struct{}

func (nopBucket) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func (nopBucket) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + *params.Key}, nil
}

func (nopBucket) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + *params.Key}, nil
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop().Sugar()
	store, err := services.OpenBadgerStore(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	images := &services.S3Service{Client: nopBucket{}, Presigner: nopBucket{}, Bucket: "images", Region: "us-east-1", Log: log}
	matches := services.NewMatchService(store, log, 1, time.Millisecond)
	router := NewRouter(Services{
		Auth:     services.NewAuthService(store, store, "routes-test-secret", time.Hour, log),
		Profiles: services.NewUserProfileService(store, images, log),
		Matches:  matches,
		Swipes:   services.NewSwipeService(store, matches, log),
		Chat:     services.NewChatService(store, log),
		Images:   images,
	}, log)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{t: t, server: server}
}

// do sends a JSON request and decodes the JSON response into out when given
func (ts *testServer) do(method, path, token string, body any, out any) int {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	r, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(ts.t, err)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(r)
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) signUp(email string) services.Session {
	ts.t.Helper()
	var session services.Session
	status := ts.do(http.MethodPost, "/api/auth/signup", "", services.Credentials{Email: email, Password: "secret1"}, &session)
	require.Equal(ts.t, http.StatusCreated, status)
	return session
}

func TestRoutes_Public(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	var health map[string]string
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/health", "", nil, &health))
	req.Equal("healthy", health["status"])

	resp, err := http.Get(ts.server.URL + "/privacy-policy")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(resp.Header.Get("Content-Type"), "text/html")
}

func TestRoutes_Auth(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	ts.signUp("ada@example.com")

	var failure map[string]string
	req.Equal(http.StatusConflict, ts.do(http.MethodPost, "/api/auth/signup", "", services.Credentials{Email: "ada@example.com", Password: "secret1"}, &failure))
	req.Equal(http.StatusBadRequest, ts.do(http.MethodPost, "/api/auth/signup", "", services.Credentials{Email: "nope", Password: "secret1"}, &failure))
	req.Contains(failure["error"], "Email")
	req.Equal(http.StatusUnauthorized, ts.do(http.MethodPost, "/api/auth/signin", "", services.Credentials{Email: "ada@example.com", Password: "wrong12"}, &failure))

	var session services.Session
	req.Equal(http.StatusOK, ts.do(http.MethodPost, "/api/auth/signin", "", services.Credentials{Email: "ada@example.com", Password: "secret1"}, &session))
	req.NotEmpty(session.Token)

	req.Equal(http.StatusUnauthorized, ts.do(http.MethodGet, "/api/profiles/me", "", nil, &failure))
	req.Equal(http.StatusUnauthorized, ts.do(http.MethodGet, "/api/profiles/me", "forged", nil, &failure))
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/profiles/me", session.Token, nil, nil))
}

func TestRoutes_Profiles(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	ada := ts.signUp("ada@example.com")

	var saved struct {
		Profile models.UserProfile `json:"profile"`
	}
	status := ts.do(http.MethodPut, "/api/profiles/me", ada.Token, models.UserProfile{
		Name: "Ada", Major: "Mathematics", Gender: models.GenderFemale,
	}, &saved)
	req.Equal(http.StatusOK, status)
	req.Equal(ada.UserID, saved.Profile.UserID)

	var failure map[string]string
	req.Equal(http.StatusBadRequest, ts.do(http.MethodPut, "/api/profiles/me", ada.Token, models.UserProfile{Gender: "Robot"}, &failure))
	req.Equal(http.StatusNotFound, ts.do(http.MethodGet, "/api/profiles/u404", ada.Token, nil, &failure))

	var profile models.UserProfile
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/profiles/"+ada.UserID, ada.Token, nil, &profile))
	req.Equal("Ada", profile.Name)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "me.png")
	req.NoError(err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"))
	req.NoError(err)
	req.NoError(form.Close())

	r, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/profiles/me/image?kind=profile", &body)
	req.NoError(err)
	r.Header.Set("Content-Type", form.FormDataContentType())
	r.Header.Set("Authorization", "Bearer "+ada.Token)
	resp, err := http.DefaultClient.Do(r)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
	req.NoError(json.NewDecoder(resp.Body).Decode(&saved))
	req.Equal("https://images.s3.us-east-1.amazonaws.com/profileImages/"+ada.UserID, saved.Profile.Image)

	var signed map[string]string
	req.Equal(http.StatusOK, ts.do(http.MethodPost, "/api/images/read-url", ada.Token, map[string]string{"key": "profileImages/" + ada.UserID}, &signed))
	req.Equal("https://signed/profileImages/"+ada.UserID, signed["url"])
}

func TestRoutes_SwipeMatchChat(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	ada := ts.signUp("ada@example.com")
	bob := ts.signUp("bob@example.com")

	var deck struct {
		State   string              `json:"state"`
		Current *models.UserProfile `json:"current"`
	}
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/swipe", ada.Token, nil, &deck))
	req.Equal("ready", deck.State)
	req.Equal(bob.UserID, deck.Current.UserID)

	var failure map[string]string
	req.Equal(http.StatusConflict, ts.do(http.MethodPost, "/api/swipe/decide", ada.Token,
		map[string]string{"candidateId": "someone-else", "direction": "right"}, &failure))
	req.Equal(http.StatusBadRequest, ts.do(http.MethodPost, "/api/swipe/decide", ada.Token,
		map[string]string{"candidateId": bob.UserID, "direction": "up"}, &failure))

	var decision services.Decision
	req.Equal(http.StatusOK, ts.do(http.MethodPost, "/api/swipe/decide", ada.Token,
		map[string]string{"candidateId": bob.UserID, "direction": "right"}, &decision))
	req.True(decision.Matched)
	req.Equal(models.AcknowledgmentPositive, decision.Acknowledgment)

	var matches struct {
		Matches []models.UserProfile `json:"matches"`
	}
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/match", bob.Token, nil, &matches))
	req.Len(matches.Matches, 1)
	req.Equal(ada.UserID, matches.Matches[0].UserID)

	req.Equal(http.StatusNotFound, ts.do(http.MethodPost, "/api/match", ada.Token, map[string]string{"userId": "ghost"}, &failure))
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/match", ada.Token, nil, &matches))
	req.Len(matches.Matches, 1)
	req.Equal(bob.UserID, matches.Matches[0].UserID)

	var sent models.Message
	req.Equal(http.StatusCreated, ts.do(http.MethodPost, "/api/chat/"+bob.UserID+"/messages", ada.Token, map[string]string{"text": "hi"}, &sent))
	req.Equal(ada.UserID, sent.Sender)
	req.Equal(http.StatusBadRequest, ts.do(http.MethodPost, "/api/chat/"+bob.UserID+"/messages", ada.Token, map[string]string{"text": "   "}, &failure))
	req.Equal(http.StatusCreated, ts.do(http.MethodPost, "/api/chat/"+ada.UserID+"/messages", bob.Token, map[string]string{"text": "hello"}, &sent))

	var history struct {
		ChannelID string           `json:"channelId"`
		Messages  []models.Message `json:"messages"`
	}
	req.Equal(http.StatusOK, ts.do(http.MethodGet, "/api/chat/"+ada.UserID+"/messages", bob.Token, nil, &history))
	channelID, err := services.ChannelID(ada.UserID, bob.UserID)
	req.NoError(err)
	req.Equal(channelID, history.ChannelID)
	req.Len(history.Messages, 2)
	req.Equal("hi", history.Messages[0].Text)
	req.Equal("hello", history.Messages[1].Text)

	req.Equal(http.StatusBadRequest, ts.do(http.MethodGet, "/api/chat/"+ada.UserID+"/messages", ada.Token, nil, &failure))

	resp := ts.do(http.MethodDelete, "/api/swipe", ada.Token, nil, nil)
	req.Equal(http.StatusNoContent, resp)
}

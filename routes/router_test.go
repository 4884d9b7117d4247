package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"go.uber.org/zap"

	"github.com/zaptlab/taskrewards/models"
	"github.com/zaptlab/taskrewards/store"
	"github.com/zaptlab/taskrewards/utils"
)

func TestMain(m *testing.M) {
	// Config is loaded once per process; pin it down before the first route
	// is wired. The redis port points at nothing so cache reads miss cleanly.
	os.Setenv("JWT_SECRET", "router-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("GIN_PATH", filepath.Join(os.TempDir(), "taskrewards_gin_test.log"))
	os.Setenv("REDIS_PORT", "6390")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")

	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

	os.Exit(m.Run())
}

// fakeStore is an in-memory Store with the same write semantics as the gorm
// implementation: RecordSubmission appends the response and credits the
// account atomically under one lock.
type fakeStore struct {
	mu        sync.Mutex
	tasks     map[uint]models.Task
	responses []models.TaskResponse
	rewards   map[string]int

	failSubmission bool
}

func newFakeStore(tasks ...models.Task) *fakeStore {
	fs := &fakeStore{
		tasks:   map[uint]models.Task{},
		rewards: map[string]int{},
	}
	for _, t := range tasks {
		fs.tasks[t.ID] = t
	}
	return fs
}

func (f *fakeStore) GetTask(ctx context.Context, taskID uint) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint, 0, len(f.tasks))
	for id := range f.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.tasks[id])
	}
	return out, nil
}

func (f *fakeStore) HasResponse(ctx context.Context, userID string, taskID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.responses {
		if r.UserID == userID && r.TaskID == taskID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) RecordSubmission(ctx context.Context, resp *models.TaskResponse, reward int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSubmission {
		return errors.New("storage unavailable")
	}
	f.responses = append(f.responses, *resp)
	f.rewards[resp.UserID] += reward
	return nil
}

func (f *fakeStore) GetTotalRewards(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rewards[userID], nil
}

func (f *fakeStore) writeCounts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.responses), len(f.rewards)
}

const testUserID = "f47ac10b-58cc-4372-a567-0e02b2c3d479"

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func doSubmit(t *testing.T, r http.Handler, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/submitTask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return body.Error
}

func TestSubmitTaskSuccess(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Title: "Survey", Description: "Fill it in", Reward: 10})
	r := SetupRouter(fs)

	w := doSubmit(t, r, bearerToken(t, testUserID), `{"taskId":1,"response":"my answer"}`)
	assert.Equal(t, w.Code, http.StatusOK)

	var body struct {
		Success bool `json:"success"`
		Reward  int  `json:"reward"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	assert.Equal(t, body.Success, true)
	assert.Equal(t, body.Reward, 10)

	total, _ := fs.GetTotalRewards(context.Background(), testUserID)
	assert.Equal(t, total, 10)
	assert.Equal(t, fs.responses[0].UserID, testUserID)
}

func TestSubmitTaskMissingFields(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Reward: 10})
	r := SetupRouter(fs)

	for _, body := range []string{
		`{"response":"answer"}`,
		`{"taskId":1}`,
		`{"taskId":1,"response":""}`,
		`not json`,
	} {
		w := doSubmit(t, r, bearerToken(t, testUserID), body)
		assert.Equal(t, w.Code, http.StatusBadRequest)
		assert.Equal(t, errBody(t, w), "Task ID and response are required")
	}

	responses, rewards := fs.writeCounts()
	assert.Equal(t, responses, 0)
	assert.Equal(t, rewards, 0)
}

func TestSubmitTaskUnknownTask(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Reward: 10})
	r := SetupRouter(fs)

	w := doSubmit(t, r, bearerToken(t, testUserID), `{"taskId":999999,"response":"answer"}`)
	assert.Equal(t, w.Code, http.StatusNotFound)
	assert.Equal(t, errBody(t, w), "Task not found")

	responses, _ := fs.writeCounts()
	assert.Equal(t, responses, 0)
}

func TestSubmitTaskAuthFailures(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Reward: 10})
	r := SetupRouter(fs)

	expired, err := utils.GenerateToken(testUserID, "user@example.com", -time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	cases := []struct {
		name string
		auth string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"non-uuid identity", bearerToken(t, "user-42")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doSubmit(t, r, tc.auth, `{"taskId":1,"response":"answer"}`)
			assert.Equal(t, w.Code, http.StatusUnauthorized)
			assert.Equal(t, errBody(t, w), "Authentication failed")
		})
	}

	responses, _ := fs.writeCounts()
	assert.Equal(t, responses, 0)
}

func TestSubmitTaskWrongMethod(t *testing.T) {
	fs := newFakeStore()
	r := SetupRouter(fs)

	req := httptest.NewRequest(http.MethodGet, "/api/submitTask", nil)
	req.Header.Set("Authorization", bearerToken(t, testUserID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusMethodNotAllowed)
}

func TestSubmitTaskStorageFailure(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Reward: 10})
	fs.failSubmission = true
	r := SetupRouter(fs)

	w := doSubmit(t, r, bearerToken(t, testUserID), `{"taskId":1,"response":"answer"}`)
	assert.Equal(t, w.Code, http.StatusInternalServerError)
	assert.Equal(t, errBody(t, w), "Error submitting task")
}

func TestSequentialSubmissionsAccumulate(t *testing.T) {
	fs := newFakeStore(
		models.Task{ID: 1, Title: "First", Reward: 10},
		models.Task{ID: 2, Title: "Second", Reward: 15},
	)
	r := SetupRouter(fs)
	auth := bearerToken(t, testUserID)

	w := doSubmit(t, r, auth, `{"taskId":1,"response":"one"}`)
	assert.Equal(t, w.Code, http.StatusOK)
	w = doSubmit(t, r, auth, `{"taskId":2,"response":"two"}`)
	assert.Equal(t, w.Code, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/getUserRewards", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		TotalRewards int `json:"totalRewards"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	assert.Equal(t, body.TotalRewards, 25)
}

func TestConcurrentSubmissionsLoseNoCredit(t *testing.T) {
	const n = 20
	fs := newFakeStore(models.Task{ID: 1, Reward: 5})
	r := SetupRouter(fs)
	auth := bearerToken(t, testUserID)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doSubmit(t, r, auth, `{"taskId":1,"response":"answer"}`)
			if w.Code != http.StatusOK {
				t.Errorf("unexpected status %d", w.Code)
			}
		}()
	}
	wg.Wait()

	total, _ := fs.GetTotalRewards(context.Background(), testUserID)
	assert.Equal(t, total, n*5)
}

func TestGetTasks(t *testing.T) {
	fs := newFakeStore(
		models.Task{ID: 1, Title: "First", Description: "a", Reward: 10},
		models.Task{ID: 2, Title: "Second", Description: "b", Reward: 15},
	)
	r := SetupRouter(fs)

	req := httptest.NewRequest(http.MethodGet, "/api/getTasks", nil)
	req.Header.Set("Authorization", bearerToken(t, testUserID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	assert.Equal(t, len(tasks), 2)
	assert.Equal(t, tasks[0].Title, "First")
	assert.Equal(t, tasks[1].Reward, 15)
}

func TestGetUserRewardsUnknownUserReadsZero(t *testing.T) {
	fs := newFakeStore()
	r := SetupRouter(fs)

	req := httptest.NewRequest(http.MethodGet, "/api/getUserRewards", nil)
	req.Header.Set("Authorization", bearerToken(t, testUserID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)

	var body struct {
		TotalRewards int `json:"totalRewards"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	assert.Equal(t, body.TotalRewards, 0)
}

func TestResubmissionDefaultRecredits(t *testing.T) {
	fs := newFakeStore(models.Task{ID: 1, Reward: 10})
	r := SetupRouter(fs)
	auth := bearerToken(t, testUserID)

	for i := 0; i < 2; i++ {
		w := doSubmit(t, r, auth, `{"taskId":1,"response":"answer"}`)
		assert.Equal(t, w.Code, http.StatusOK)
	}

	// Current product decision: resubmission appends a second response row
	// and credits the reward again.
	total, _ := fs.GetTotalRewards(context.Background(), testUserID)
	assert.Equal(t, total, 20)
	responses, _ := fs.writeCounts()
	assert.Equal(t, responses, 2)
}

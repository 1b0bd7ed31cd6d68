package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/cryptox"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/logging"
	"github.com/dmitrijs2005/carblock/internal/server/auth"
	"github.com/dmitrijs2005/carblock/internal/server/config"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/push"
	blocksrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/blocks"
	notifsrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/notifications"
	platesrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/userplates"
	usersrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/users"
	"github.com/dmitrijs2005/carblock/internal/server/services"
	"github.com/dmitrijs2005/carblock/internal/server/smscode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories backing the router under test ---

type memStore struct {
	seq    int
	users  map[string]*models.User
	plates []*models.UserPlate
	blocks []*models.Block
	notifs []*models.Notification
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = r.s.nextID("u")
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r memUsers) GetByPhoneHash(ctx context.Context, hash string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.PhoneHash == hash {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) Update(ctx context.Context, id string, upd *models.UpdateUser) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Telegram != nil {
		u.Telegram = *upd.Telegram
	}
	if upd.ShowContacts != nil {
		u.ShowContacts = *upd.ShowContacts
	}
	if upd.OwnerType != nil {
		u.OwnerType = *upd.OwnerType
	}
	if upd.DepartureTime != nil {
		u.DepartureTime = *upd.DepartureTime
	}
	return u, nil
}

func (r memUsers) SetPushToken(ctx context.Context, id string, token string) error {
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PushToken = token
	return nil
}

type memPlates struct{ s *memStore }

func (r memPlates) Create(ctx context.Context, userID, plate string, isPrimary bool, departureTime string) (*models.UserPlate, error) {
	for _, p := range r.s.plates {
		if p.UserID == userID && p.Plate == plate {
			return nil, common.ErrorAlreadyExists
		}
	}
	p := &models.UserPlate{
		ID: r.s.nextID("p"), UserID: userID, Plate: plate,
		IsPrimary: isPrimary, DepartureTime: departureTime, CreatedAt: time.Now(),
	}
	r.s.plates = append(r.s.plates, p)
	return p, nil
}

func (r memPlates) ListByUser(ctx context.Context, userID string) ([]*models.UserPlate, error) {
	var result []*models.UserPlate
	for _, p := range r.s.plates {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r memPlates) FindPrimary(ctx context.Context, userID string) (*models.UserPlate, error) {
	for _, p := range r.s.plates {
		if p.UserID == userID && p.IsPrimary {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memPlates) FindByPlate(ctx context.Context, plate string) ([]*models.UserPlate, error) {
	var result []*models.UserPlate
	for _, p := range r.s.plates {
		if p.Plate == plate {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r memPlates) SetPrimary(ctx context.Context, id, userID string) error {
	found := false
	for _, p := range r.s.plates {
		if p.ID == id && p.UserID == userID {
			found = true
		}
	}
	if !found {
		return common.ErrorNotFound
	}
	for _, p := range r.s.plates {
		if p.UserID == userID {
			p.IsPrimary = p.ID == id
		}
	}
	return nil
}

func (r memPlates) UpdateDepartureTime(ctx context.Context, id, userID, departureTime string) error {
	for _, p := range r.s.plates {
		if p.ID == id && p.UserID == userID {
			p.DepartureTime = departureTime
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r memPlates) Delete(ctx context.Context, id, userID string) error {
	for i, p := range r.s.plates {
		if p.ID == id && p.UserID == userID {
			r.s.plates = append(r.s.plates[:i], r.s.plates[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memBlocks struct{ s *memStore }

func (r memBlocks) Create(ctx context.Context, blockerID, blockerPlate, blockedPlate string) (*models.Block, error) {
	for _, b := range r.s.blocks {
		if b.BlockerPlate == blockerPlate && b.BlockedPlate == blockedPlate {
			return nil, common.ErrorAlreadyExists
		}
	}
	b := &models.Block{
		ID: r.s.nextID("b"), BlockerID: blockerID,
		BlockerPlate: blockerPlate, BlockedPlate: blockedPlate, CreatedAt: time.Now(),
	}
	r.s.blocks = append(r.s.blocks, b)
	return b, nil
}

func (r memBlocks) GetByID(ctx context.Context, id string) (*models.Block, error) {
	for _, b := range r.s.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memBlocks) ListByBlocker(ctx context.Context, blockerID string) ([]*models.Block, error) {
	var result []*models.Block
	for _, b := range r.s.blocks {
		if b.BlockerID == blockerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r memBlocks) ListByBlockerPlates(ctx context.Context, plates []string) ([]*models.Block, error) {
	var result []*models.Block
	for _, b := range r.s.blocks {
		for _, p := range plates {
			if b.BlockerPlate == p {
				result = append(result, b)
				break
			}
		}
	}
	return result, nil
}

func (r memBlocks) ListByBlockedPlate(ctx context.Context, plate string) ([]*models.Block, error) {
	var result []*models.Block
	for i := len(r.s.blocks) - 1; i >= 0; i-- {
		if r.s.blocks[i].BlockedPlate == plate {
			result = append(result, r.s.blocks[i])
		}
	}
	return result, nil
}

func (r memBlocks) Exists(ctx context.Context, blockerPlate, blockedPlate string) (bool, error) {
	for _, b := range r.s.blocks {
		if b.BlockerPlate == blockerPlate && b.BlockedPlate == blockedPlate {
			return true, nil
		}
	}
	return false, nil
}

func (r memBlocks) Delete(ctx context.Context, id string) error {
	for i, b := range r.s.blocks {
		if b.ID == id {
			r.s.blocks = append(r.s.blocks[:i], r.s.blocks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memNotifs struct{ s *memStore }

func (r memNotifs) Create(ctx context.Context, n *notifsrepo.CreateNotification) (*models.Notification, error) {
	created := &models.Notification{
		ID: r.s.nextID("n"), UserID: n.UserID, Type: n.Type,
		Title: n.Title, Message: n.Message, Data: n.Data, CreatedAt: time.Now(),
	}
	r.s.notifs = append(r.s.notifs, created)
	return created, nil
}

func (r memNotifs) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	var result []*models.Notification
	for _, n := range r.s.notifs {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r memNotifs) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range r.s.notifs {
		if n.ID == id && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r memNotifs) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.s.notifs {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

type memRepoManager struct{ s *memStore }

func (m memRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m memRepoManager) Users(dbx.DBTX) usersrepo.Repository              { return memUsers{m.s} }
func (m memRepoManager) UserPlates(dbx.DBTX) platesrepo.Repository        { return memPlates{m.s} }
func (m memRepoManager) Blocks(dbx.DBTX) blocksrepo.Repository            { return memBlocks{m.s} }
func (m memRepoManager) Notifications(dbx.DBTX) notifsrepo.Repository     { return memNotifs{m.s} }

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, msg push.Message) {}

type testEnv struct {
	store *memStore
	ts    *httptest.Server
	mock  sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// transactions are driven by the in-memory repos, the sql handle only
	// provides begin/commit
	mock.MatchExpectationsInOrder(false)

	cfg := &config.Config{
		SecretKey:            "test-secret",
		TokenValidity:        time.Hour,
		CodeLength:           4,
		CodeTTL:              5 * time.Minute,
		ReturnCodeInResponse: true,
		MinClientVersion:     "1.2.0",
		ReleaseClientVersion: "1.4.0",
		TelegramBotUsername:  "carblock_bot",
	}

	store := newMemStore()
	rm := memRepoManager{store}

	cipher, err := cryptox.NewCipher(cryptox.DeriveKey("test"))
	require.NoError(t, err)

	codes := smscode.NewStore(cfg.CodeLength, cfg.CodeTTL)
	sender := sendFunc(func(ctx context.Context, phone, text string) error { return nil })

	authSvc := services.NewAuthService(db, rm, cfg, codes, sender, cipher)
	userSvc := services.NewUserService(db, rm, cipher)
	plateSvc := services.NewPlateService(db, rm)
	blockSvc := services.NewBlockService(db, rm, userSvc, nopNotifier{})
	notifSvc := services.NewNotificationService(db, rm)
	infoSvc := services.NewServerInfoService("2.0.0", cfg, nil, logging.Nop{})

	srv := NewServer(cfg, logging.Nop{}, authSvc, userSvc, plateSvc, blockSvc, notifSvc, infoSvc)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{store: store, ts: ts, mock: mock}
}

type sendFunc func(ctx context.Context, phone, text string) error

func (f sendFunc) Send(ctx context.Context, phone, text string) error { return f(ctx, phone, text) }

func (e *testEnv) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var parsed map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

// login registers a user through the real auth flow and returns its token.
func (e *testEnv) login(t *testing.T, phone string) (string, string) {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/auth/start", "", map[string]any{"phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code, _ := body["code"].(string)
	require.NotEmpty(t, code)

	resp, body = e.do(t, http.MethodPost, "/api/auth/verify", "", map[string]any{"phone": phone, "code": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["token"].(string)
	userID, _ := body["user_id"].(string)
	require.NotEmpty(t, token)
	return token, userID
}

// --- tests ---

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.login(t, "8 999 123-45-67")

	resp, body := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, body["id"])
	assert.Equal(t, "+79991234567", body["phone"])
}

func TestAuthVerify_WrongCode(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/auth/start", "", map[string]any{"phone": "+79991234567"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/auth/verify", "", map[string]any{"phone": "+79991234567", "code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid verification code", body["error"])
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/blocks/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	expired, err := auth.GenerateToken("u-1", []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	resp, body := env.do(t, http.MethodGet, "/api/blocks/", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token expired", body["error"])
}

func TestBlockLifecycle(t *testing.T) {
	env := newTestEnv(t)

	blockerToken, _ := env.login(t, "+79991111111")
	ownerToken, _ := env.login(t, "+79992222222")

	env.expectTx()
	resp, _ := env.do(t, http.MethodPost, "/api/user/plates/", blockerToken, map[string]any{"plate": "А123БВ77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env.expectTx()
	resp, _ = env.do(t, http.MethodPost, "/api/user/plates/", ownerToken, map[string]any{"plate": "В456ГД77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env.expectTx()
	resp, created := env.do(t, http.MethodPost, "/api/blocks/", blockerToken, map[string]any{
		"blocked_plate": "в 456 гд 77", "notify_owner": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "А123БВ77", created["blocker_plate"])
	assert.Equal(t, "В456ГД77", created["blocked_plate"])

	// duplicate pair is rejected before any transaction starts
	resp, body := env.do(t, http.MethodPost, "/api/blocks/", blockerToken, map[string]any{
		"blocked_plate": "В456ГД77", "notify_owner": false,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "already exists", body["error"])

	// the owner sees the block with blocker info
	resp, _ = env.do(t, http.MethodGet, "/api/blocks/my", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// and got exactly one unread notification
	resp, _ = env.do(t, http.MethodGet, "/api/notifications/?unread=true", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var unread int
	for _, n := range env.store.notifs {
		if !n.Read {
			unread++
		}
	}
	assert.Equal(t, 1, unread)

	// check endpoint
	resp, check := env.do(t, http.MethodGet, "/api/blocks/check?plate=В456ГД77", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, check["is_blocked"])

	// delete by non-owner is forbidden
	blockID := created["id"].(string)
	resp, body = env.do(t, http.MethodDelete, "/api/blocks/"+blockID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["error"])

	// delete by the creator works
	env.expectTx()
	resp, _ = env.do(t, http.MethodDelete, "/api/blocks/"+blockID, blockerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateBlock_Validation(t *testing.T) {
	env := newTestEnv(t)

	token, _ := env.login(t, "+79991111111")

	env.expectTx()
	resp, _ := env.do(t, http.MethodPost, "/api/user/plates/", token, map[string]any{"plate": "А123БВ77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/blocks/", token, map[string]any{
		"blocked_plate": "not-a-plate", "notify_owner": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation error", body["error"])
	assert.Equal(t, "invalid plate", body["details"])
}

func TestNotifications_MarkAllRead(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.login(t, "+79991111111")
	_, otherID := env.login(t, "+79992222222")

	store := env.store
	for i := 0; i < 3; i++ {
		_, err := memNotifs{store}.Create(context.Background(), &notifsrepo.CreateNotification{
			UserID: userID, Type: common.NotificationSystem, Title: "t", Message: "m",
		})
		require.NoError(t, err)
	}
	_, err := memNotifs{store}.Create(context.Background(), &notifsrepo.CreateNotification{
		UserID: otherID, Type: common.NotificationSystem, Title: "t", Message: "m",
	})
	require.NoError(t, err)

	resp, _ := env.do(t, http.MethodPatch, "/api/notifications/read-all", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, n := range store.notifs {
		if n.UserID == otherID {
			assert.False(t, n.Read)
			continue
		}
		assert.True(t, n.Read)
	}
}

func TestPlateManagementRoutes(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.login(t, "+79991111111")

	env.expectTx()
	resp, first := env.do(t, http.MethodPost, "/api/user/plates/", token, map[string]any{"plate": "А123БВ77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env.expectTx()
	resp, second := env.do(t, http.MethodPost, "/api/user/plates/", token, map[string]any{"plate": "В456ГД77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	secondID := second["id"].(string)
	env.expectTx()
	resp, _ = env.do(t, http.MethodPost, "/api/user/plates/"+secondID+"/primary", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, "/api/user/plates/"+secondID, token, map[string]any{"departure_time": "08:30"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// deleting the primary does not promote the remaining plate
	env.expectTx()
	resp, _ = env.do(t, http.MethodDelete, "/api/user/plates/"+secondID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	firstID := first["id"].(string)
	for _, p := range env.store.plates {
		if p.UserID == userID {
			assert.Equal(t, firstID, p.ID)
			assert.False(t, p.IsPrimary)
		}
	}

	resp, _ = env.do(t, http.MethodPost, "/api/users/push-token", token, map[string]any{"token": "dev-token"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServerInfoEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/server-info", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2.0.0", body["server_version"])
	assert.Equal(t, "1.2.0", body["min_client_version"])
	assert.Equal(t, "1.4.0", body["release_client_version"])
	assert.Equal(t, "carblock_bot", body["telegram_bot_username"])
}

func TestUserByPlate(t *testing.T) {
	env := newTestEnv(t)

	token, _ := env.login(t, "+79991111111")
	otherToken, otherID := env.login(t, "+79992222222")

	env.expectTx()
	resp, _ := env.do(t, http.MethodPost, "/api/user/plates/", otherToken, map[string]any{"plate": "В456ГД77"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	show := true
	name := "Ivan"
	_, err := memUsers{env.store}.Update(context.Background(), otherID, &models.UpdateUser{ShowContacts: &show, Name: &name})
	require.NoError(t, err)

	resp, body := env.do(t, http.MethodGet, "/api/users/by-plate?plate=В456ГД77", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, otherID, body["id"])
	assert.Equal(t, "Ivan", body["name"])

	resp, body = env.do(t, http.MethodGet, "/api/users/by-plate?plate=Е789ЖЗ77", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body["error"])
}

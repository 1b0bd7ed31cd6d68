package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/cryptox"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	blocksrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/blocks"
	notifsrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/notifications"
	platesrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/userplates"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/carblock/internal/server/repositories/users"
	"github.com/dmitrijs2005/carblock/internal/server/push"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

var (
	cipherOnce sync.Once
	testCipher *cryptox.Cipher
)

// argon2 key derivation is expensive, derive the test key once.
func newTestCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	cipherOnce.Do(func() {
		c, err := cryptox.NewCipher(cryptox.DeriveKey("test-secret"))
		if err != nil {
			panic(err)
		}
		testCipher = c
	})
	return testCipher
}

// --- fake repositories ---

type fakeUsersRepo struct {
	seq   int
	users map[string]*models.User

	createErr error
	getErr    error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", f.seq)
	}
	u.CreatedAt = time.Now()
	f.users[u.ID] = u
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.add(u), nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByPhoneHash(ctx context.Context, hash string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.PhoneHash == hash {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, upd *models.UpdateUser) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[id]
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
	if upd.OwnerInfo != nil {
		u.OwnerInfo = upd.OwnerInfo
	}
	if upd.DepartureTime != nil {
		u.DepartureTime = *upd.DepartureTime
	}
	if upd.PushToken != nil {
		u.PushToken = *upd.PushToken
	}
	return u, nil
}

func (f *fakeUsersRepo) SetPushToken(ctx context.Context, id string, token string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PushToken = token
	return nil
}

type fakePlatesRepo struct {
	seq    int
	plates []*models.UserPlate

	listErr error
}

func (f *fakePlatesRepo) add(userID, plate string, isPrimary bool, departureTime string) *models.UserPlate {
	f.seq++
	p := &models.UserPlate{
		ID:            fmt.Sprintf("p-%d", f.seq),
		UserID:        userID,
		Plate:         plate,
		IsPrimary:     isPrimary,
		DepartureTime: departureTime,
		CreatedAt:     time.Now().Add(time.Duration(f.seq) * time.Millisecond),
	}
	f.plates = append(f.plates, p)
	return p
}

func (f *fakePlatesRepo) Create(ctx context.Context, userID, plate string, isPrimary bool, departureTime string) (*models.UserPlate, error) {
	for _, p := range f.plates {
		if p.UserID == userID && p.Plate == plate {
			return nil, common.ErrorAlreadyExists
		}
	}
	return f.add(userID, plate, isPrimary, departureTime), nil
}

func (f *fakePlatesRepo) ListByUser(ctx context.Context, userID string) ([]*models.UserPlate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*models.UserPlate
	for _, p := range f.plates {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePlatesRepo) FindPrimary(ctx context.Context, userID string) (*models.UserPlate, error) {
	for _, p := range f.plates {
		if p.UserID == userID && p.IsPrimary {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePlatesRepo) FindByPlate(ctx context.Context, plate string) ([]*models.UserPlate, error) {
	var result []*models.UserPlate
	for _, p := range f.plates {
		if p.Plate == plate {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePlatesRepo) SetPrimary(ctx context.Context, id, userID string) error {
	var target *models.UserPlate
	for _, p := range f.plates {
		if p.ID == id && p.UserID == userID {
			target = p
		}
	}
	if target == nil {
		return common.ErrorNotFound
	}
	for _, p := range f.plates {
		if p.UserID == userID {
			p.IsPrimary = false
		}
	}
	target.IsPrimary = true
	return nil
}

func (f *fakePlatesRepo) UpdateDepartureTime(ctx context.Context, id, userID, departureTime string) error {
	for _, p := range f.plates {
		if p.ID == id && p.UserID == userID {
			p.DepartureTime = departureTime
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakePlatesRepo) Delete(ctx context.Context, id, userID string) error {
	for i, p := range f.plates {
		if p.ID == id && p.UserID == userID {
			f.plates = append(f.plates[:i], f.plates[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeBlocksRepo struct {
	seq    int
	blocks []*models.Block

	createErr error
}

func (f *fakeBlocksRepo) add(blockerID, blockerPlate, blockedPlate string) *models.Block {
	f.seq++
	b := &models.Block{
		ID:           fmt.Sprintf("b-%d", f.seq),
		BlockerID:    blockerID,
		BlockerPlate: blockerPlate,
		BlockedPlate: blockedPlate,
		CreatedAt:    time.Now().Add(time.Duration(f.seq) * time.Millisecond),
	}
	f.blocks = append(f.blocks, b)
	return b
}

func (f *fakeBlocksRepo) Create(ctx context.Context, blockerID, blockerPlate, blockedPlate string) (*models.Block, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, b := range f.blocks {
		if b.BlockerPlate == blockerPlate && b.BlockedPlate == blockedPlate {
			return nil, common.ErrorAlreadyExists
		}
	}
	return f.add(blockerID, blockerPlate, blockedPlate), nil
}

func (f *fakeBlocksRepo) GetByID(ctx context.Context, id string) (*models.Block, error) {
	for _, b := range f.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBlocksRepo) ListByBlocker(ctx context.Context, blockerID string) ([]*models.Block, error) {
	var result []*models.Block
	for _, b := range f.blocks {
		if b.BlockerID == blockerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBlocksRepo) ListByBlockerPlates(ctx context.Context, plates []string) ([]*models.Block, error) {
	var result []*models.Block
	for _, b := range f.blocks {
		for _, p := range plates {
			if b.BlockerPlate == p {
				result = append(result, b)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeBlocksRepo) ListByBlockedPlate(ctx context.Context, plate string) ([]*models.Block, error) {
	var result []*models.Block
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if f.blocks[i].BlockedPlate == plate {
			result = append(result, f.blocks[i])
		}
	}
	return result, nil
}

func (f *fakeBlocksRepo) Exists(ctx context.Context, blockerPlate, blockedPlate string) (bool, error) {
	for _, b := range f.blocks {
		if b.BlockerPlate == blockerPlate && b.BlockedPlate == blockedPlate {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlocksRepo) Delete(ctx context.Context, id string) error {
	for i, b := range f.blocks {
		if b.ID == id {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeNotifsRepo struct {
	seq     int
	created []*models.Notification

	createErr error
	markedAll []string
}

func (f *fakeNotifsRepo) Create(ctx context.Context, n *notifsrepo.CreateNotification) (*models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	created := &models.Notification{
		ID:        fmt.Sprintf("n-%d", f.seq),
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: time.Now(),
	}
	f.created = append(f.created, created)
	return created, nil
}

func (f *fakeNotifsRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	var result []*models.Notification
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (f *fakeNotifsRepo) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotifsRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.markedAll = append(f.markedAll, userID)
	for _, n := range f.created {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// byUser filters created notifications for one recipient.
func (f *fakeNotifsRepo) byUser(userID string) []*models.Notification {
	var result []*models.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePlatesRepo
	b *fakeBlocksRepo
	n *fakeNotifsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		p: &fakePlatesRepo{},
		b: &fakeBlocksRepo{},
		n: &fakeNotifsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error          { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                { return m.u }
func (m *fakeRepoManager) UserPlates(db dbx.DBTX) platesrepo.Repository          { return m.p }
func (m *fakeRepoManager) Blocks(db dbx.DBTX) blocksrepo.Repository              { return m.b }
func (m *fakeRepoManager) Notifications(db dbx.DBTX) notifsrepo.Repository       { return m.n }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// --- fake collaborators ---

type fakeSender struct {
	phone string
	text  string
	err   error
}

func (f *fakeSender) Send(ctx context.Context, phone string, text string) error {
	if f.err != nil {
		return f.err
	}
	f.phone = phone
	f.text = text
	return nil
}

// fakeNotifier records deliveries; push dispatch runs in a goroutine so
// access is guarded and callers wait on the service first.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []push.Message
}

func (f *fakeNotifier) Notify(ctx context.Context, msg push.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

func (f *fakeNotifier) messages() []push.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]push.Message(nil), f.sent...)
}

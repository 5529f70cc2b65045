package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"salesreport/internal/common"
	"salesreport/internal/dbx"
	"salesreport/internal/logging"
	"salesreport/internal/server/models"
	permissionsrepo "salesreport/internal/server/repositories/permissions"
	"salesreport/internal/server/repositories/repomanager"
	"salesreport/internal/server/repositories/reports"
	usersrepo "salesreport/internal/server/repositories/users"
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

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard)
}

// --- in-memory fakes ---

type fakeUsersRepo struct {
	users map[string]models.User // keyed by id
	// forced errors
	createErr  error
	deleteErr  error
	countErr   error
	deletedIDs []string
}

func newFakeUsersRepo(users ...models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	out := *u
	if out.ID == "" {
		out.ID = fmt.Sprintf("u%d", len(f.users)+1)
	}
	f.users[out.ID] = out
	return &out, nil
}

func (f *fakeUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	for _, u := range f.users {
		if u.UserName == userName {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.users, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeUsersRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakePermissionsRepo struct {
	perms     []models.Permission
	createErr error
	deleteErr error
	listErr   error
}

func (f *fakePermissionsRepo) Create(ctx context.Context, p *models.Permission) (*models.Permission, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *p
	out.ID = fmt.Sprintf("p%d", len(f.perms)+1)
	f.perms = append(f.perms, out)
	return &out, nil
}

func (f *fakePermissionsRepo) List(ctx context.Context) ([]models.Permission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Permission(nil), f.perms...), nil
}

func (f *fakePermissionsRepo) ListByViewer(ctx context.Context, viewerID string) ([]models.Permission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Permission
	for _, p := range f.perms {
		if p.ViewerID == viewerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePermissionsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, p := range f.perms {
		if p.ID == id {
			f.perms = append(f.perms[:i], f.perms[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakePermissionsRepo) DeleteByUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.perms[:0]
	for _, p := range f.perms {
		if p.ViewerID != userID && p.VieweeID != userID {
			kept = append(kept, p)
		}
	}
	f.perms = kept
	return nil
}

type fakeDailyRepo struct {
	recs      map[string]models.DailyActivity
	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeDailyRepo(recs ...models.DailyActivity) *fakeDailyRepo {
	f := &fakeDailyRepo{recs: map[string]models.DailyActivity{}}
	for _, r := range recs {
		f.recs[r.ID] = r
	}
	return f
}

func (f *fakeDailyRepo) Create(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *rec
	out.ID = fmt.Sprintf("d%d", len(f.recs)+1)
	f.recs[out.ID] = out
	return &out, nil
}

func (f *fakeDailyRepo) ListByUser(ctx context.Context, userID string) ([]models.DailyActivity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.DailyActivity
	for _, r := range f.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDailyRepo) GetByID(ctx context.Context, id string) (*models.DailyActivity, error) {
	r, ok := f.recs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := r
	return &out, nil
}

func (f *fakeDailyRepo) Update(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.recs[rec.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.recs[rec.ID] = *rec
	out := *rec
	return &out, nil
}

func (f *fakeDailyRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.recs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.recs, id)
	return nil
}

func (f *fakeDailyRepo) DeleteByUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for id, r := range f.recs {
		if r.UserID == userID {
			delete(f.recs, id)
		}
	}
	return nil
}

type fakeWeeklyRepo struct {
	recs      map[string]models.WeeklyPlan
	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeWeeklyRepo(recs ...models.WeeklyPlan) *fakeWeeklyRepo {
	f := &fakeWeeklyRepo{recs: map[string]models.WeeklyPlan{}}
	for _, r := range recs {
		f.recs[r.ID] = r
	}
	return f
}

func (f *fakeWeeklyRepo) Create(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *rec
	out.ID = fmt.Sprintf("w%d", len(f.recs)+1)
	f.recs[out.ID] = out
	return &out, nil
}

func (f *fakeWeeklyRepo) ListByUser(ctx context.Context, userID string) ([]models.WeeklyPlan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.WeeklyPlan
	for _, r := range f.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWeeklyRepo) GetByID(ctx context.Context, id string) (*models.WeeklyPlan, error) {
	r, ok := f.recs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := r
	return &out, nil
}

func (f *fakeWeeklyRepo) Update(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.recs[rec.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.recs[rec.ID] = *rec
	out := *rec
	return &out, nil
}

func (f *fakeWeeklyRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.recs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.recs, id)
	return nil
}

func (f *fakeWeeklyRepo) DeleteByUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for id, r := range f.recs {
		if r.UserID == userID {
			delete(f.recs, id)
		}
	}
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePermissionsRepo
	d *fakeDailyRepo
	w *fakeWeeklyRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		p: &fakePermissionsRepo{},
		d: newFakeDailyRepo(),
		w: newFakeWeeklyRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository              { return m.u }
func (m *fakeRepoManager) Permissions(db dbx.DBTX) permissionsrepo.Repository  { return m.p }
func (m *fakeRepoManager) DailyActivities(db dbx.DBTX) reports.DailyRepository { return m.d }
func (m *fakeRepoManager) WeeklyPlans(db dbx.DBTX) reports.WeeklyRepository    { return m.w }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

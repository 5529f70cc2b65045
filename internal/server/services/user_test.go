package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"salesreport/internal/common"
	"salesreport/internal/server/auth"
	"salesreport/internal/server/config"
	"salesreport/internal/server/models"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		AdminFullName:         "Admin User",
		AdminUserName:         "admin",
		AdminPassword:         "password",
	}
	return NewUserService(db, rm, cfg, testLogger())
}

func seedUser(t *testing.T, rm *fakeRepoManager, id, userName, password string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	u := models.User{ID: id, FullName: "Test " + userName, UserName: userName, PasswordHash: hash, Role: role}
	rm.u.users[id] = u
	return u
}

func TestUserService_Login_Success(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "u1", "asha", "secret1", models.RoleUser)
	s := newUserService(t, rm)

	res, err := s.Login(context.Background(), "asha", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.Token == "" {
		t.Errorf("expected a session token")
	}
	if res.User.ID != "u1" || res.User.UserName != "asha" || res.User.Role != models.RoleUser {
		t.Errorf("unexpected user projection: %+v", res.User)
	}

	claims, err := auth.ParseToken(res.Token, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleUser {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

// Unknown usernames and wrong passwords must be indistinguishable to the caller.
func TestUserService_Login_InvalidCredentials(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "u1", "asha", "secret1", models.RoleUser)
	s := newUserService(t, rm)

	_, errUnknown := s.Login(context.Background(), "nobody", "secret1")
	_, errWrongPass := s.Login(context.Background(), "asha", "wrong")

	if !errors.Is(errUnknown, common.ErrorUnauthorized) {
		t.Errorf("unknown user: expected ErrorUnauthorized, got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, common.ErrorUnauthorized) {
		t.Errorf("wrong password: expected ErrorUnauthorized, got %v", errWrongPass)
	}
	if !errors.Is(errUnknown, errWrongPass) && errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("errors should be indistinguishable: %v vs %v", errUnknown, errWrongPass)
	}
}

func TestUserService_Register(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	pub, err := s.Register(context.Background(), "Asha Rao", "asha", "secret1", models.RoleUser)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if pub.ID == "" || pub.UserName != "asha" {
		t.Errorf("unexpected result: %+v", pub)
	}

	// password hash must never appear in the projection; verify storage instead
	stored, err := rm.u.GetByUserName(context.Background(), "asha")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if !auth.CheckPassword(stored.PasswordHash, "secret1") {
		t.Errorf("stored hash does not match the password")
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "u1", "asha", "secret1", models.RoleUser)
	s := newUserService(t, rm)

	_, err := s.Register(context.Background(), "Other", "asha", "secret2", models.RoleUser)
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
	// the original account is untouched
	stored, _ := rm.u.GetByUserName(context.Background(), "asha")
	if !auth.CheckPassword(stored.PasswordHash, "secret1") {
		t.Errorf("original password hash was replaced")
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	tests := []struct {
		name                              string
		fullName, userName, password      string
		role                              models.Role
	}{
		{"missing full name", "", "asha", "pw", models.RoleUser},
		{"missing username", "Asha", "", "pw", models.RoleUser},
		{"missing password", "Asha", "asha", "", models.RoleUser},
		{"unknown role", "Asha", "asha", "pw", models.Role("Owner")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.fullName, tc.userName, tc.password, tc.role)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected ErrorValidation, got %v", err)
			}
		})
	}
}

func TestUserService_Delete_Cascade(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "u1", "asha", "pw", models.RoleUser)
	seedUser(t, rm, "u2", "ben", "pw", models.RoleUser)
	rm.p.perms = []models.Permission{
		{ID: "p1", ViewerID: "u2", VieweeID: "u1"},
		{ID: "p2", ViewerID: "u1", VieweeID: "u2"},
		{ID: "p3", ViewerID: "u2", VieweeID: "u2"},
	}
	rm.d.recs["d1"] = models.DailyActivity{ID: "d1", UserID: "u1"}
	rm.d.recs["d2"] = models.DailyActivity{ID: "d2", UserID: "u2"}
	rm.w.recs["w1"] = models.WeeklyPlan{ID: "w1", UserID: "u1"}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	s := NewUserService(db, rm, cfg, testLogger())

	if err := s.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if _, ok := rm.u.users["u1"]; ok {
		t.Errorf("user u1 should be gone")
	}
	for _, p := range rm.p.perms {
		if p.ViewerID == "u1" || p.VieweeID == "u1" {
			t.Errorf("dangling permission edge: %+v", p)
		}
	}
	if len(rm.p.perms) != 1 {
		t.Errorf("expected 1 surviving permission, got %d", len(rm.p.perms))
	}
	if _, ok := rm.d.recs["d1"]; ok {
		t.Errorf("daily activity d1 should be gone")
	}
	if _, ok := rm.d.recs["d2"]; !ok {
		t.Errorf("other user's daily activity must survive")
	}
	if _, ok := rm.w.recs["w1"]; ok {
		t.Errorf("weekly plan w1 should be gone")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("sqlmock expectations: %v", err)
	}
}

func TestUserService_Delete_RollsBackOnFailure(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "u1", "asha", "pw", models.RoleUser)
	rm.w.deleteErr = errors.New("disk on fire")

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	s := NewUserService(db, rm, cfg, testLogger())

	err := s.Delete(context.Background(), "u1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("sqlmock expectations: %v", err)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUserService_EnsureInitialAdmin(t *testing.T) {
	rm := newFakeRepoManager()
	s := newUserService(t, rm)

	if err := s.EnsureInitialAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureInitialAdmin error: %v", err)
	}

	admin, err := rm.u.GetByUserName(context.Background(), "admin")
	if err != nil {
		t.Fatalf("bootstrap admin missing: %v", err)
	}
	if admin.Role != models.RoleAdmin || admin.FullName != "Admin User" {
		t.Errorf("unexpected bootstrap admin: %+v", admin)
	}
	if !auth.CheckPassword(admin.PasswordHash, "password") {
		t.Errorf("bootstrap password does not verify")
	}

	// second boot with an admin present must not create another
	if err := s.EnsureInitialAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureInitialAdmin error: %v", err)
	}
	n, _ := rm.u.CountByRole(context.Background(), models.RoleAdmin)
	if n != 1 {
		t.Errorf("expected exactly one admin, got %d", n)
	}
}

func TestUserService_ListViewable(t *testing.T) {
	rm := newFakeRepoManager()
	seedUser(t, rm, "a1", "boss", "pw", models.RoleAdmin)
	seedUser(t, rm, "u1", "asha", "pw", models.RoleUser)
	seedUser(t, rm, "u2", "ben", "pw", models.RoleUser)
	seedUser(t, rm, "u3", "cara", "pw", models.RoleUser)
	rm.p.perms = []models.Permission{{ID: "p1", ViewerID: "u1", VieweeID: "u2"}}
	s := newUserService(t, rm)

	ids := func(users []models.PublicUser) map[string]bool {
		out := map[string]bool{}
		for _, u := range users {
			out[u.ID] = true
		}
		return out
	}

	// viewer with one granted edge sees self plus viewee
	got, err := s.ListViewable(context.Background(), "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("ListViewable error: %v", err)
	}
	if m := ids(got); len(m) != 2 || !m["u1"] || !m["u2"] {
		t.Errorf("unexpected viewable set: %+v", got)
	}

	// viewer with no edges sees only self
	got, err = s.ListViewable(context.Background(), "u3", models.RoleUser)
	if err != nil {
		t.Fatalf("ListViewable error: %v", err)
	}
	if m := ids(got); len(m) != 1 || !m["u3"] {
		t.Errorf("unexpected viewable set: %+v", got)
	}

	// admin sees every regular account
	got, err = s.ListViewable(context.Background(), "a1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("ListViewable error: %v", err)
	}
	if m := ids(got); len(m) != 3 || m["a1"] {
		t.Errorf("admin should see the three regular users: %+v", got)
	}

	// deleted account with a live token
	if _, err := s.ListViewable(context.Background(), "ghost", models.RoleUser); !errors.Is(err, common.ErrorUnauthorized) {
		t.Errorf("expected ErrorUnauthorized, got %v", err)
	}
}

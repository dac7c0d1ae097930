package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return Store{DB: db, JWTSecret: []byte("test-secret")}, mock
}

func sessionRow(secretHash string, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "admin_id", "email", "full_name", "role", "secret_hash", "expires_at"}).
		AddRow("sid-1", int64(7), "admin@example.com", "Admin One", "admin", secretHash, expiresAt)
}

func TestCreateMintsTokenAndAccessToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO admin_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	token, accessToken, sess, err := store.Create(context.Background(), models.AdminUser{
		ID:    7,
		Email: "admin@example.com",
		Name:  "Admin One",
		Role:  "super-admin",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id, secret, ok := strings.Cut(token, "."); !ok || id != sess.ID || secret == "" {
		t.Errorf("token %q does not carry the session id and a secret", token)
	}
	if !sess.SuperAdmin() {
		t.Errorf("expected super-admin session, got role %q", sess.Role)
	}

	adminID, role, sid, err := store.VerifyAccessToken(accessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if adminID != 7 || role != "super-admin" || sid != sess.ID {
		t.Errorf("claims = (%d, %q, %q), want (7, super-admin, %q)", adminID, role, sid, sess.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store, mock := newMockStore(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("FROM admin_sessions").WithArgs("sid-1").
		WillReturnRows(sessionRow(string(hash), time.Now().Add(time.Hour)))

	sess, err := store.Authenticate(context.Background(), "sid-1.s3cret")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if sess.AdminID != 7 || sess.Email != "admin@example.com" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.SuperAdmin() {
		t.Error("plain admin should not be super-admin")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	store, mock := newMockStore(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	mock.ExpectQuery("FROM admin_sessions").WithArgs("sid-1").
		WillReturnRows(sessionRow(string(hash), time.Now().Add(time.Hour)))

	if _, err := store.Authenticate(context.Background(), "sid-1.wrong"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthenticateExpiredDeletesRow(t *testing.T) {
	store, mock := newMockStore(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	mock.ExpectQuery("FROM admin_sessions").WithArgs("sid-1").
		WillReturnRows(sessionRow(string(hash), time.Now().Add(-time.Minute)))
	mock.ExpectExec("DELETE FROM admin_sessions").WithArgs("sid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := store.Authenticate(context.Background(), "sid-1.s3cret"); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for expired session, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expired row was not deleted: %v", err)
	}
}

func TestAuthenticateMalformedToken(t *testing.T) {
	store, _ := newMockStore(t)

	for _, token := range []string{"", "no-dot", ".secret-only", "id-only."} {
		if _, err := store.Authenticate(context.Background(), token); !domain.IsValidation(err) {
			t.Errorf("token %q: expected validation error, got %v", token, err)
		}
	}
}

func TestResolveAccessToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO admin_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, accessToken, sess, err := store.Create(context.Background(), models.AdminUser{
		ID:    7,
		Email: "admin@example.com",
		Name:  "Admin One",
		Role:  "admin",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mock.ExpectQuery("FROM admin_sessions").WithArgs(sess.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "email", "full_name", "role", "secret_hash", "expires_at"}).
			AddRow(sess.ID, int64(7), "admin@example.com", "Admin One", "admin", "unused", time.Now().Add(time.Hour)))

	resolved, err := store.Resolve(context.Background(), accessToken)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if resolved.ID != sess.ID || resolved.AdminID != 7 {
		t.Errorf("resolved session = %+v", resolved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO admin_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, accessToken, _, err := store.Create(context.Background(), models.AdminUser{ID: 7, Role: "admin"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	other := Store{DB: store.DB, JWTSecret: []byte("different-secret")}
	if _, err := other.Resolve(context.Background(), accessToken); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for a foreign signature, got %v", err)
	}
}

func TestResolveExpiredSessionDeletesRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO admin_sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, accessToken, sess, err := store.Create(context.Background(), models.AdminUser{ID: 7, Role: "admin"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mock.ExpectQuery("FROM admin_sessions").WithArgs(sess.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "email", "full_name", "role", "secret_hash", "expires_at"}).
			AddRow(sess.ID, int64(7), "", "", "admin", "unused", time.Now().Add(-time.Minute)))
	mock.ExpectExec("DELETE FROM admin_sessions").WithArgs(sess.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := store.Resolve(context.Background(), accessToken); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for expired session, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expired row was not deleted: %v", err)
	}
}

func TestAuthenticateUnknownSession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM admin_sessions").WithArgs("sid-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "email", "full_name", "role", "secret_hash", "expires_at"}))

	if _, err := store.Authenticate(context.Background(), "sid-9.secret"); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM admin_sessions WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired error: %v", err)
	}
	if n != 3 {
		t.Errorf("swept = %d, want 3", n)
	}
}

func TestDestroy(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM admin_sessions").WithArgs("sid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Destroy(context.Background(), "sid-1"); err != nil {
		t.Fatalf("Destroy error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Package session is the server-side replacement for the old dashboard's
// local-storage identity: one row per logged-in admin, explicit expiry,
// nothing ambient.
package session

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

const defaultTTL = 24 * time.Hour

type Session struct {
	ID        string    `json:"id"`
	AdminID   int64     `json:"admin_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) SuperAdmin() bool {
	return strings.EqualFold(s.Role, "super-admin")
}

type Store struct {
	DB        *sql.DB
	JWTSecret []byte
	TTL       time.Duration
}

func (s Store) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTTL
}

// Create opens a session for an authenticated admin. The returned token is
// "<id>.<secret>"; only a bcrypt hash of the secret is stored. A short JWT
// carrying the admin id and role is minted alongside for API clients that
// prefer bearer auth.
func (s Store) Create(ctx context.Context, admin models.AdminUser) (token, accessToken string, sess Session, err error) {
	id := uuid.NewString()
	secret := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", Session{}, domain.InternalError{Msg: "hash session secret", Err: err}
	}

	expiresAt := time.Now().UTC().Add(s.ttl())
	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO admin_sessions (id, admin_id, email, full_name, role, secret_hash, expires_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
    `, id, admin.ID, admin.Email, admin.Name, admin.Role, string(hash), expiresAt)
	if err != nil {
		return "", "", Session{}, domain.InternalError{Msg: "insert session", Err: err}
	}

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"role":     admin.Role,
		"sid":      id,
		"exp":      expiresAt.Unix(),
	}
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", "", Session{}, domain.InternalError{Msg: "sign access token", Err: err}
	}

	sess = Session{
		ID:        id,
		AdminID:   admin.ID,
		Email:     admin.Email,
		FullName:  admin.Name,
		Role:      admin.Role,
		ExpiresAt: expiresAt,
	}
	return id + "." + secret, accessToken, sess, nil
}

// Authenticate resolves a "<id>.<secret>" token to its live session.
func (s Store) Authenticate(ctx context.Context, token string) (Session, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return Session{}, domain.ValidationError{Field: "session", Msg: "malformed token"}
	}

	sess, secretHash, err := s.loadSession(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
		return Session{}, domain.ValidationError{Field: "session", Msg: "invalid token"}
	}
	return sess, nil
}

// Resolve authenticates a bearer JWT access token: the signature proves
// possession, the sid claim names the session row, which must still be
// live. Destroying the session also kills outstanding access tokens.
func (s Store) Resolve(ctx context.Context, accessToken string) (Session, error) {
	adminID, _, sid, err := s.VerifyAccessToken(accessToken)
	if err != nil {
		return Session{}, err
	}
	if sid == "" {
		return Session{}, domain.ValidationError{Field: "token", Msg: "missing session claim"}
	}

	sess, _, err := s.loadSession(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	if adminID != 0 && sess.AdminID != adminID {
		return Session{}, domain.ValidationError{Field: "token", Msg: "token does not match session"}
	}
	return sess, nil
}

// loadSession fetches a live session row. Expired rows are deleted on
// sight.
func (s Store) loadSession(ctx context.Context, id string) (Session, string, error) {
	var (
		sess       Session
		secretHash string
	)
	err := s.DB.QueryRowContext(ctx, `
        SELECT id, admin_id, email, full_name, role, secret_hash, expires_at
        FROM admin_sessions
        WHERE id = ?
    `, id).Scan(&sess.ID, &sess.AdminID, &sess.Email, &sess.FullName, &sess.Role, &secretHash, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, "", domain.NotFoundError{Resource: "session"}
		}
		return Session{}, "", domain.InternalError{Msg: "query session", Err: err}
	}

	if time.Now().After(sess.ExpiresAt) {
		_, _ = s.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, id)
		return Session{}, "", domain.NotFoundError{Resource: "session"}
	}
	return sess, secretHash, nil
}

// Destroy logs the admin out.
func (s Store) Destroy(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError{Msg: "delete session", Err: err}
	}
	return nil
}

// SweepExpired removes expired rows; called periodically from main.
func (s Store) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, domain.InternalError{Msg: "sweep sessions", Err: err}
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// VerifyAccessToken validates a bearer JWT and returns the session id it
// was minted with, for a follow-up Authenticate-by-id path.
func (s Store) VerifyAccessToken(tokenString string) (adminID int64, role, sessionID string, err error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ValidationError{Field: "token", Msg: "unexpected signing method"}
		}
		return s.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", "", domain.ValidationError{Field: "token", Msg: "invalid access token", Err: err}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", "", domain.ValidationError{Field: "token", Msg: "invalid claims"}
	}
	if v, ok := claims["admin_id"].(float64); ok {
		adminID = int64(v)
	}
	role, _ = claims["role"].(string)
	sessionID, _ = claims["sid"].(string)
	return adminID, role, sessionID, nil
}

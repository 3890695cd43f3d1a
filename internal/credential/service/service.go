// Package service implements the credential verification flows: two-step
// registration and two-step login, each gated by a short-lived emailed code.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	accountdomain "eduplatform/backend/internal/account/domain"
	auditdomain "eduplatform/backend/internal/audit/domain"
	otcdomain "eduplatform/backend/internal/otc/domain"
	"eduplatform/backend/internal/security"
)

// AccountRepo is the minimal account repository needed by the credential service.
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (*accountdomain.Account, error)
	Create(ctx context.Context, a *accountdomain.Account) error
}

// CodeStore is the minimal verification code store needed by the credential service.
type CodeStore interface {
	Issue(ctx context.Context, identity string, payload []byte, ttl time.Duration) (string, error)
	Consume(ctx context.Context, identity, code string) ([]byte, error)
	Delete(ctx context.Context, identity string) error
}

// Notifier delivers a verification message to the given recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DevCodeSink receives issued codes in development mode so a local frontend can
// fetch them without a mail gateway. Nil in production.
type DevCodeSink interface {
	Put(ctx context.Context, identity, code string, expiresAt time.Time)
}

// AuditRecorder records credential-flow events. Nil disables auditing.
type AuditRecorder interface {
	Record(ctx context.Context, identity, action, outcome, metadata string)
}

// RegisterParams are the inputs to Register.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Profile  map[string]string
}

// IssuedChallenge reports that a verification code was issued and delivered for
// the identity. The code itself is never returned here.
type IssuedChallenge struct {
	Identity  string
	ExpiresAt time.Time
}

// pendingRegistration is the payload stored alongside a registration code. It
// carries the hashed password, never the plaintext.
type pendingRegistration struct {
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	PasswordHash string            `json:"password_hash"`
	Profile      map[string]string `json:"profile,omitempty"`
}

// pendingLogin is the payload stored alongside a login code.
type pendingLogin struct {
	Email string `json:"email"`
}

// Service composes the account repository, code store, hasher, and notifier into
// the registration and login flows.
type Service struct {
	accounts AccountRepo
	codes    CodeStore
	hasher   *security.Hasher
	notifier Notifier
	devSink  DevCodeSink
	audit    AuditRecorder
	codeTTL  time.Duration
	now      func() time.Time

	issuedCounter   metric.Int64Counter
	consumedCounter metric.Int64Counter
}

// NewService returns a Service with the given dependencies. devSink and audit may
// be nil. A non-positive codeTTL falls back to the default 30 minutes.
func NewService(
	accounts AccountRepo,
	codes CodeStore,
	hasher *security.Hasher,
	notifier Notifier,
	devSink DevCodeSink,
	audit AuditRecorder,
	codeTTL time.Duration,
) *Service {
	if codeTTL <= 0 {
		codeTTL = otcdomain.DefaultTTL
	}
	meter := otel.Meter("eduplatform/backend/internal/credential")
	issued, _ := meter.Int64Counter("credential.codes.issued",
		metric.WithDescription("Verification codes issued"))
	consumed, _ := meter.Int64Counter("credential.codes.consumed",
		metric.WithDescription("Verification codes successfully consumed"))
	return &Service{
		accounts:        accounts,
		codes:           codes,
		hasher:          hasher,
		notifier:        notifier,
		devSink:         devSink,
		audit:           audit,
		codeTTL:         codeTTL,
		now:             func() time.Time { return time.Now().UTC() },
		issuedCounter:   issued,
		consumedCounter: consumed,
	}
}

// Register validates the email and password, hashes the password, and issues a
// verification code delivered to the email address. The account is not created
// until ConfirmRegistration succeeds with that code. Returns ErrAlreadyRegistered
// for a known email, a WeakPasswordError when the password fails the strength
// policy, and a DeliveryError (with the pending code discarded) when the notifier
// fails.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*IssuedChallenge, error) {
	email := normalizeEmail(p.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	strength := security.EvaluateStrength(p.Password)
	if !strength.Acceptable() {
		return nil, &WeakPasswordError{Result: strength}
	}
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if existing != nil {
		s.record(ctx, email, auditdomain.ActionRegister, auditdomain.OutcomeRejected, "email already registered")
		return nil, ErrAlreadyRegistered
	}
	hashed, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(pendingRegistration{
		Email:        email,
		Name:         strings.TrimSpace(p.Name),
		PasswordHash: hashed,
		Profile:      p.Profile,
	})
	if err != nil {
		return nil, err
	}
	challenge, err := s.issueAndDeliver(ctx, email, payload, auditdomain.ActionRegister, registrationMail)
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

// ConfirmRegistration consumes the verification code for the email and creates
// the account from the pending payload. Code errors (ErrNotFound, ErrExpired,
// ErrCodeMismatch) pass through untouched; a duplicate created in the meantime
// maps to ErrAlreadyRegistered.
func (s *Service) ConfirmRegistration(ctx context.Context, email, code string) (*accountdomain.Account, error) {
	email = normalizeEmail(email)
	payload, err := s.consume(ctx, email, code, auditdomain.ActionConfirmRegistration)
	if err != nil {
		return nil, err
	}
	var pending pendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("credential: corrupt pending registration: %w", err)
	}
	account := &accountdomain.Account{
		ID:           uuid.New().String(),
		Email:        pending.Email,
		Name:         pending.Name,
		PasswordHash: pending.PasswordHash,
		Profile:      pending.Profile,
		CreatedAt:    s.now(),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, accountdomain.ErrDuplicateEmail) {
			return nil, ErrAlreadyRegistered
		}
		return nil, &StoreError{Err: err}
	}
	s.record(ctx, email, auditdomain.ActionConfirmRegistration, auditdomain.OutcomeConfirmed, "")
	return account, nil
}

// Login verifies the password for an existing account and issues a login
// verification code delivered to the email address. An unknown email returns
// ErrAccountNotFound without invoking the hasher; a wrong password returns
// ErrInvalidPassword; a corrupt stored record surfaces as ErrInvalidRecordFormat.
func (s *Service) Login(ctx context.Context, email, password string) (*IssuedChallenge, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if account == nil {
		s.record(ctx, email, auditdomain.ActionLogin, auditdomain.OutcomeRejected, "unknown account")
		return nil, ErrAccountNotFound
	}
	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.record(ctx, email, auditdomain.ActionLogin, auditdomain.OutcomeRejected, "password mismatch")
		return nil, ErrInvalidPassword
	}
	payload, err := json.Marshal(pendingLogin{Email: email})
	if err != nil {
		return nil, err
	}
	challenge, err := s.issueAndDeliver(ctx, email, payload, auditdomain.ActionLogin, loginMail)
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

// ConfirmLogin consumes the login verification code and resolves the account.
// Code errors pass through untouched; an account deleted since Login returns
// ErrAccountNotFound.
func (s *Service) ConfirmLogin(ctx context.Context, email, code string) (*accountdomain.Account, error) {
	email = normalizeEmail(email)
	payload, err := s.consume(ctx, email, code, auditdomain.ActionConfirmLogin)
	if err != nil {
		return nil, err
	}
	var pending pendingLogin
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("credential: corrupt pending login: %w", err)
	}
	account, err := s.accounts.GetByEmail(ctx, pending.Email)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	s.record(ctx, email, auditdomain.ActionConfirmLogin, auditdomain.OutcomeConfirmed, "")
	return account, nil
}

// issueAndDeliver stores a fresh code, requests delivery, and cleans up the
// pending entry when delivery fails so a retry is not blocked by stale state.
func (s *Service) issueAndDeliver(ctx context.Context, email string, payload []byte, action string, mail mailTemplate) (*IssuedChallenge, error) {
	code, err := s.codes.Issue(ctx, email, payload, s.codeTTL)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	expiresAt := s.now().Add(s.codeTTL)
	subject, body := mail(code, s.codeTTL)
	if err := s.notifier.Send(ctx, email, subject, body); err != nil {
		_ = s.codes.Delete(ctx, email)
		s.record(ctx, email, action, auditdomain.OutcomeDeliveryError, err.Error())
		return nil, &DeliveryError{Err: err}
	}
	if s.devSink != nil {
		s.devSink.Put(ctx, email, code, expiresAt)
	}
	s.record(ctx, email, action, auditdomain.OutcomeCodeIssued, "")
	if s.issuedCounter != nil {
		s.issuedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
	return &IssuedChallenge{Identity: email, ExpiresAt: expiresAt}, nil
}

// consume pulls the pending payload for the identity, recording rejected attempts
// and distinguishing code errors from infrastructure failures.
func (s *Service) consume(ctx context.Context, email, code, action string) ([]byte, error) {
	payload, err := s.codes.Consume(ctx, email, code)
	if err != nil {
		switch {
		case errors.Is(err, otcdomain.ErrNotFound),
			errors.Is(err, otcdomain.ErrExpired),
			errors.Is(err, otcdomain.ErrCodeMismatch):
			s.record(ctx, email, action, auditdomain.OutcomeRejected, err.Error())
			return nil, err
		default:
			return nil, &StoreError{Err: err}
		}
	}
	if s.consumedCounter != nil {
		s.consumedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
	return payload, nil
}

func (s *Service) record(ctx context.Context, identity, action, outcome, metadata string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, identity, action, outcome, metadata)
}

// mailTemplate renders the subject and body for a verification mail. The body
// names the code and how long it stays valid.
type mailTemplate func(code string, ttl time.Duration) (subject, body string)

func registrationMail(code string, ttl time.Duration) (string, string) {
	subject := "Verify your EduPlatform registration"
	body := fmt.Sprintf(
		"Welcome to EduPlatform!\n\nYour verification code is %s. It is valid for %d minutes.\n\nIf you did not request this, you can ignore this email.",
		code, int(ttl.Minutes()))
	return subject, body
}

func loginMail(code string, ttl time.Duration) (string, string) {
	subject := "Your EduPlatform login code"
	body := fmt.Sprintf(
		"Your login verification code is %s. It is valid for %d minutes.\n\nIf you did not try to log in, please change your password.",
		code, int(ttl.Minutes()))
	return subject, body
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

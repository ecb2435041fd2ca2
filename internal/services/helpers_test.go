package services_test

import (
	"context"
	"sync"
	"time"

	"travelbook/internal/models"
	"travelbook/internal/repositories"
	"travelbook/internal/security"
	"travelbook/internal/services"
	"travelbook/internal/validation"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSender is a mock implementation of mailer.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// recordingSender keeps every message it is asked to send.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To, Subject, Body string
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *recordingSender) last() sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

// recordingPublisher keeps the type of every published event.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

const testSecret = "test-secret"

// stack is a fully wired set of services backed by in-memory storage.
type stack struct {
	users    *repositories.MemoryUserRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenIssuer
	clock    *fakeClock
	mail     *recordingSender
	events   *recordingPublisher
	auth     *services.AuthService
	password *services.PasswordService
	guard    *services.SessionGuard
}

func newStack(tokenLifetime time.Duration) *stack {
	clock := newFakeClock()
	users := repositories.NewMemoryUserRepository()
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	tokens := security.NewTokenIssuer(testSecret, tokenLifetime).WithClock(clock.Now)
	resets := security.NewResetTokenManager(security.DefaultResetTokenTTL).WithClock(clock.Now)
	mail := &recordingSender{}
	events := &recordingPublisher{}
	v := validation.New()

	return &stack{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clock,
		mail:     mail,
		events:   events,
		auth:     services.NewAuthService(users, hasher, tokens, v, events, nil),
		password: services.NewPasswordService(users, hasher, resets, mail, "http://localhost:5173", v, events, nil),
		guard:    services.NewSessionGuard(users, tokens, nil),
	}
}

func validRegistration(email string) services.RegisterInput {
	return services.RegisterInput{
		FullName:    "Jane Traveller",
		Email:       email,
		Password:    "password123",
		PhoneNumber: "9876543210",
	}
}

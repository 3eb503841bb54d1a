package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/example/campshare/internal/application"
	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
	"github.com/example/campshare/internal/persistence/memory"
)

// RecordingSender captures messages and answers with a scripted result.
type RecordingSender struct {
	mu       sync.Mutex
	messages []notify.Message
	result   notify.Result
}

// NewRecordingSender returns a sender that reports every message as delivered.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{result: notify.Result{Success: true, ID: "SM-test"}}
}

func (s *RecordingSender) Send(_ context.Context, msg notify.Message) notify.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.result
}

// FailWith makes subsequent sends fail with reason.
func (s *RecordingSender) FailWith(reason string) {
	s.mu.Lock()
	s.result = notify.Result{Success: false, Error: reason}
	s.mu.Unlock()
}

// Messages returns a copy of everything sent so far.
func (s *RecordingSender) Messages() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.messages...)
}

// ContainerFactory builds containers with deterministic ids, time and temporary passwords.
type ContainerFactory struct {
	Clock         *Clock
	IDGenerator   *IDGenerator
	Sender        *RecordingSender
	TempPasswords func() (string, error)
	Credentials   application.Credentials
	Verifier      application.InvitationVerifier
	Logger        *slog.Logger
}

type ContainerFactoryOption func(*ContainerFactory)

// NewContainerFactory constructs a factory with defaults.
func NewContainerFactory(opts ...ContainerFactoryOption) *ContainerFactory {
	factory := &ContainerFactory{
		Clock:         NewClock(time.Time{}),
		IDGenerator:   NewIDGenerator("id"),
		Sender:        NewRecordingSender(),
		TempPasswords: TempPasswords("445566", "778899", "112233"),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(factory)
	}
	return factory
}

func WithClock(clock *Clock) ContainerFactoryOption {
	return func(f *ContainerFactory) {
		f.Clock = clock
	}
}

func WithIDGenerator(generator *IDGenerator) ContainerFactoryOption {
	return func(f *ContainerFactory) {
		f.IDGenerator = generator
	}
}

func WithCredentials(credentials application.Credentials) ContainerFactoryOption {
	return func(f *ContainerFactory) {
		f.Credentials = credentials
	}
}

func WithVerifier(verifier application.InvitationVerifier) ContainerFactoryOption {
	return func(f *ContainerFactory) {
		f.Verifier = verifier
	}
}

// Deps returns container dependencies over repo.
func (f *ContainerFactory) Deps(repo application.StateRepository) application.Deps {
	return application.Deps{
		Repository:   repo,
		Sender:       f.Sender,
		Credentials:  f.Credentials,
		Verifier:     f.Verifier,
		IDGenerator:  f.IDGenerator.NextFunc(),
		Now:          f.Clock.NowFunc(),
		TempPassword: f.TempPasswords,
		Logger:       f.Logger,
	}
}

// Open builds a container over store and fails the test on error.
func (f *ContainerFactory) Open(tb testing.TB, store persistence.KeyValueStore) *application.Container {
	tb.Helper()

	container, err := application.Open(context.Background(), f.Deps(persistence.NewRepository(store)))
	if err != nil {
		tb.Fatalf("failed to open container: %v", err)
	}
	return container
}

// Harness bundles a container with the store and collaborators behind it.
type Harness struct {
	*ContainerFactory
	Container *application.Container
	Store     persistence.KeyValueStore
}

// Reopen loads a fresh container from the same store, as a restart would.
func (h *Harness) Reopen(tb testing.TB) *application.Container {
	tb.Helper()
	h.Container = h.Open(tb, h.Store)
	return h.Container
}

// Login sets the session user by phone number and password.
func (h *Harness) Login(tb testing.TB, phoneNumber, password string) application.User {
	tb.Helper()

	result, err := h.Container.LoginWithPhoneAndPassword(context.Background(), phoneNumber, password)
	if err != nil {
		tb.Fatalf("login as %s failed: %v", phoneNumber, err)
	}
	return result.User
}

// LoginAdmin logs in as the seeded administrator.
func (h *Harness) LoginAdmin(tb testing.TB) application.User {
	tb.Helper()
	return h.Login(tb, "1234567890", "admin123")
}

// NewMemoryHarness opens a container over an in-memory store.
func NewMemoryHarness(tb testing.TB, opts ...ContainerFactoryOption) *Harness {
	tb.Helper()

	factory := NewContainerFactory(opts...)
	store := memory.NewStore()
	return &Harness{ContainerFactory: factory, Container: factory.Open(tb, store), Store: store}
}

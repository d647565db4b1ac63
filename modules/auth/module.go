package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/taskmanager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides registration, login and session services.
type AuthModule struct {
	db          *gorm.DB
	redisClient *redis.Client
	service     *AuthService
	dbPath      string
	redisAddr   string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	dbPath := os.Getenv("TASKMANAGER_DB_PATH")
	if dbPath == "" {
		dbPath = "taskmanager.db"
	}
	return &AuthModule{
		dbPath:    dbPath,
		redisAddr: os.Getenv("SESSION_REDIS_ADDR"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	sessions, err := m.newSessionStore(ctx)
	if err != nil {
		return err
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	validator := NewCredentialValidator()
	m.service = NewAuthService(repo, hasher, validator, sessions)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// newSessionStore selects the session backend: Redis when
// SESSION_REDIS_ADDR is set, otherwise in-process memory.
func (m *AuthModule) newSessionStore(ctx context.Context) (SessionStore, error) {
	if m.redisAddr == "" {
		log.Println("[auth] Using in-memory session store")
		return NewMemorySessionStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	m.redisClient = client

	log.Printf("[auth] Using Redis session store at %s", m.redisAddr)
	return NewRedisSessionStore(client)
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.redisClient != nil {
		if err := m.redisClient.Close(); err != nil {
			log.Printf("[auth] Error closing Redis connection: %v", err)
		}
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	if m.redisClient != nil {
		if err := m.redisClient.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
			"sessions": m.sessionBackend(),
		},
	}
}

func (m *AuthModule) sessionBackend() string {
	if m.redisAddr != "" {
		return "redis"
	}
	return "memory"
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"register": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"logout": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "logout", json.Unmarshal, json.Marshal, m.handleLogout)
		},
		"resolve-session": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "resolve-session", json.Unmarshal, json.Marshal, m.handleResolveSession)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, logout, resolve-session")
	return nil
}

// handleRegister handles user registration.
func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, fieldErrs, err := m.service.Register(ctx, req.Email, req.Password, req.TermsAccepted)
	if err != nil {
		return RegisterResponse{}, err
	}
	if fieldErrs != nil {
		return RegisterResponse{Errors: fieldErrs}, nil
	}

	return RegisterResponse{
		Email:         user.Email,
		TermsAccepted: user.TermsAccepted,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, sessionID, fieldErrs, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	if fieldErrs != nil {
		return LoginResponse{Errors: fieldErrs}, nil
	}

	return LoginResponse{
		ID:        user.ID,
		Email:     user.Email,
		SessionID: sessionID,
	}, nil
}

// handleLogout handles logout.
func (m *AuthModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.SessionID); err != nil {
		return LogoutResponse{}, err
	}
	return LogoutResponse{}, nil
}

// handleResolveSession handles session resolution for the API middleware.
func (m *AuthModule) handleResolveSession(ctx context.Context, req ResolveSessionRequest, _ *mono.Msg) (ResolveSessionResponse, error) {
	identity, err := m.service.ResolveSession(ctx, req.SessionID)
	if err != nil {
		return ResolveSessionResponse{}, err
	}
	if identity == nil {
		// Not an error: the caller is simply anonymous.
		return ResolveSessionResponse{Authenticated: false}, nil
	}

	return ResolveSessionResponse{
		Authenticated: true,
		UserID:        identity.UserID,
		Email:         identity.Email,
	}, nil
}

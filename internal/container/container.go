package container

import (
	"context"
	"fmt"

	"github.com/nhel2500/AUPWU/internal/config"
	"github.com/nhel2500/AUPWU/internal/repository"
	"github.com/nhel2500/AUPWU/internal/service"
	"github.com/nhel2500/AUPWU/pkg/database"
	"github.com/nhel2500/AUPWU/pkg/logger"
	"github.com/nhel2500/AUPWU/pkg/redis"
)

// Services holds the application services
type Services struct {
	Auth      service.AuthService
	Ballot    service.Ballot
	Tally     service.Tally
	Election  service.ElectionAdmin
	Candidacy service.Candidacy
	Audit     *service.AuditService
}

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: the portal runs without caching when absent
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		Election:  repository.NewElectionRepository(db),
		Candidate: repository.NewCandidateRepository(db),
		Vote:      repository.NewVoteRepository(db),
		Member:    repository.NewMemberRepository(db),
		Activity:  repository.NewActivityRepository(db),
	}

	audit := service.NewAuditService(repos.Activity, log)
	services := &Services{
		Auth:      service.NewJWTAuthService(cfg.JWTSecret, log),
		Ballot:    service.NewBallotService(repos.Election, repos.Candidate, repos.Vote, redisClient, audit, log),
		Tally:     service.NewTallyService(repos.Election, repos.Vote, repos.Member, redisClient, log),
		Election:  service.NewElectionService(repos.Election, redisClient, audit, log),
		Candidacy: service.NewCandidacyService(repos.Election, repos.Candidate, repos.Member, audit, log),
		Audit:     audit,
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Services:     services,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// Close releases the container's connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

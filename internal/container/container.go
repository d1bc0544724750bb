package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/config"
	"github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-management/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-user-management/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-management/internal/infrastructure/storage"
	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// Container holds the components shared by the HTTP layer and the command
// line tools. It is built once at startup and passed down explicitly.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users    repository.UserRepository
	Images   repository.ImageStore
	Sessions repository.SessionStore

	// Optional infrastructure; nil when not configured.
	Redis     *redis.Client
	Publisher *helpers.RabbitPublisher

	Cookies *helpers.Manager

	closers []func()
}

// New builds every store selected by cfg. On error the parts already opened
// are closed again.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}

	steps := []func(context.Context) error{
		c.initRedis,
		c.initUsers,
		c.initImages,
		c.initSessions,
		c.initPublisher,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		if c.Config.SessionStore == "redis" {
			return errors.New("SESSION_STORE=redis requires REDIS_ADDR")
		}
		return nil
	}
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping: %w", err)
	}
	c.Redis = rdb
	c.onClose(func() { _ = rdb.Close() })
	return nil
}

func (c *Container) initUsers(ctx context.Context) error {
	switch c.Config.DBDriver {
	case "postgres":
		dsn := c.Config.DatabaseURI()
		pool, err := pginfra.NewPool(ctx, dsn, c.Config.DBMaxConns, c.Config.DBMinConns, c.Config.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.onClose(pool.Close)
		if err := pginfra.RunMigrations(dsn, c.Logger); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
	case "sqlite":
		db, err := sqlite.Open(c.Config.DatabaseURI())
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		c.onClose(closeDB(db))
		c.Users = sqlite.NewUserRepository(db)
	case "memory":
		c.Users = memory.NewUserRepository()
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Config.DBDriver)
	}
	c.Logger.WithField("driver", c.Config.DBDriver).Info("user store ready")
	return nil
}

func (c *Container) initImages(ctx context.Context) error {
	switch c.Config.ImageStore {
	case "local":
		s, err := storage.NewLocalStore(c.Config.UploadDir, c.Logger)
		if err != nil {
			return err
		}
		c.Images = s
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, c.Config.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("gcs client: %w", err)
		}
		c.onClose(closeGCS(client))
		s, err := storage.NewGCSStore(client, c.Config.GCSBucket, c.Config.GCSPrefix, c.Logger)
		if err != nil {
			return err
		}
		c.Images = s
	case "s3":
		client, err := helpers.NewS3Client(ctx, c.Config.S3Region, c.Config.S3Endpoint, c.Config.S3AccessKey, c.Config.S3SecretKey)
		if err != nil {
			return fmt.Errorf("s3 client: %w", err)
		}
		s, err := storage.NewS3Store(client, c.Config.S3Bucket, c.Config.S3Prefix, c.Logger)
		if err != nil {
			return err
		}
		c.Images = s
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.Config.ImageStore)
	}
	c.Logger.WithField("store", c.Config.ImageStore).Info("image store ready")
	return nil
}

func (c *Container) initSessions(context.Context) error {
	switch c.Config.SessionStore {
	case "redis":
		c.Sessions = redisstore.NewSessionStore(c.Redis, c.Config.SessionTTL)
	case "memory":
		c.Sessions = memory.NewSessionStore(c.Config.SessionTTL)
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Config.SessionStore)
	}
	return nil
}

// initPublisher connects to RabbitMQ for notification emails. Failing to
// connect only disables notifications.
func (c *Container) initPublisher(context.Context) error {
	if !c.Config.MailNotifyEnabled || c.Config.RabbitMQURL == "" {
		return nil
	}
	pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
	if err != nil {
		helpers.LogError(c.Logger, "rabbitmq unavailable; notifications disabled", err, nil)
		return nil
	}
	c.Publisher = pub
	c.onClose(pub.Close)
	return nil
}

func closeDB(db *sql.DB) func() { return func() { _ = db.Close() } }

func closeGCS(client *gcs.Client) func() { return func() { _ = client.Close() } }

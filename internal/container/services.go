package container

import (
	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/cache"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/messaging"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/search"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// NewUserService builds the lifecycle service from the registered singletons.
// Redis, Elasticsearch and RabbitMQ are each optional.
func NewUserService() *application.Service {
	var repo repository.UserRepository = GetUserRepo()
	if rdb := GetRedis(); rdb != nil {
		repo = cache.NewUserRepository(repo, rdb, cfg.UsersCacheTTL, logger)
	}

	svc := application.NewService(
		repo,
		helpers.NewBcryptHasher(cfg.BcryptCost),
		helpers.UUIDGenerator{},
		GetJWT(),
		logger,
	)
	svc.RedactPassword = cfg.RedactPasswordHash

	if es := GetES(); es != nil {
		svc.Indexer = search.NewUserIndexer(es, cfg.ESUsersIndex)
	}
	if pub := GetRabbitPub(); pub != nil {
		svc.Notifier = messaging.NewWelcomeNotifier(pub, cfg.CompanyName, cfg.AppName)
	}
	return svc
}

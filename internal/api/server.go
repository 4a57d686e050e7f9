package api

import (
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dkvc/AutumSem-OR/internal/config"
	"github.com/dkvc/AutumSem-OR/internal/dataset"
)

type Server struct {
	Datasets dataset.Store
	Broker   EventBroker
	Limiter  *rate.Limiter
	Defaults config.Defaults
}

// NewServer wires the dataset store and progress broker from configuration.
// Without DATABASE_URL the store is in-memory, optionally seeded from a
// directory of Solomon files; with REDIS_URL datasets are cached and progress
// events fan out over Redis Pub/Sub.
func NewServer(cfg config.Config) (*Server, error) {
	var ds dataset.Store
	if cfg.DatabaseURL == "" {
		mem := dataset.NewMemory()
		if cfg.DatasetDir != "" {
			if err := mem.LoadDir(cfg.DatasetDir); err != nil {
				return nil, err
			}
		}
		ds = mem
	} else {
		pg, err := dataset.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		ds = pg
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb := redis.NewClient(opt)
		ds = dataset.NewCache(ds, rdb, cfg.CacheTTL.Std())
		broker = NewRedisBroker(rdb)
	} else {
		broker = NewBroker()
	}

	return &Server{
		Datasets: ds,
		Broker:   broker,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		Defaults: cfg.Defaults,
	}, nil
}

// Package redis provides the Redis Stack client used by the vector backend.
//
// RedisClient wraps go-redis with connection defaults, optional TLS and the
// RediSearch operations needed to keep vectors in hashes: vector index
// creation, hash writes, VECTOR_RANGE queries and exact tag counts.
//
// The client speaks RESP2. RediSearch replies under RESP3 are not parsed by
// go-redis without opting into unstable responses.
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379}, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Supply(cfg.Redis),
//		redis.FXModule,
//	)
package redis

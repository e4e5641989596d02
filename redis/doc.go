// Package redis wraps go-redis with the service's config, a lifecycle
// component and Documents, a JSON collection whose Claim is a SETNX. The
// Redis user store is a Documents collection keyed by username.
//
//	comp, err := redis.NewComponent(cfg.Redis, log)
//	users := redis.NewDocuments[userRecord](comp.Client(), "users")
//	won, err := users.Claim(ctx, "alice", rec)
package redis

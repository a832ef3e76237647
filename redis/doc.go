// Package redis wraps go-redis with the service's logging and component
// lifecycle, and provides TypedStore, a JSON-backed provider.ContextStore.
//
// Pending mention choices live here when several bot replicas share state:
//
//	client, _ := redis.New(cfg)
//	choices := redis.NewTypedStore[mention.PendingChoice](client, cfg.KeyPrefix)
//	selector := mention.NewSelector(choices, log)
//
// Take maps onto GETDEL so a choice is consumed exactly once even across
// processes.
package redis

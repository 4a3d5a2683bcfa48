// Package persistence provides the storage collaborators used by the session
// identity manager.
//
// Two kinds of storage are modelled:
//
//   - Store is a property bag shared by every SDK instance of one origin (every
//     tab in a browser, every process pointed at the same Redis hash or file).
//     It offers last-writer-wins semantics only: no locks, no transactions.
//   - TabStore is storage private to one instance. It is copied when a tab is
//     duplicated, which is why the session manager keeps a "primary window"
//     flag next to the window id.
//
// # Backends
//
//	MemoryStore    in-process map, shareable between managers
//	FileStore      JSON file re-read on every Get (localStorage analogue)
//	RedisStore     Redis hash, values JSON encoded
//	MemoryTabStore per-instance map with Clone for tab duplication
//
// # Usage
//
//	shared := persistence.NewMemoryStore()
//	tab := persistence.NewMemoryTabStore()
//
//	_ = shared.Register(ctx, persistence.Properties{"$sesid": []any{now, "id", now}})
//	v, _ := shared.Get(ctx, "$sesid")
//
// Redis backed store:
//
//	client, err := persistence.ConnectRedis(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := persistence.NewRedisStore(client, persistence.WithHashKey("myapp:props"))
//
// # Error Handling
//
// Missing keys are not errors: Get returns nil (Store) or "" (TabStore) with a
// nil error. Backend failures are joined with ErrStorageRead / ErrStorageWrite.
package persistence

// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation so extension points and
// their implementations can be found in one place.
//
// # Interface Categories
//
// ## Storage Interfaces
//
//   - ContentStore: Cached stotras and their reader state (internal/repository/repository.go)
//   - DownloadTracker: Per-language download records (internal/repository/repository.go)
//   - kvstore.Store: Byte-oriented key-value backend (internal/kvstore/store.go)
//
// ## Content Source Interfaces
//
//   - catalog.Source: Read-only stotra catalogs, bundled or remote (internal/catalog/catalog.go)
//
// ## Progress Tracking Interfaces
//
//   - ProgressReporter: Live download run state (internal/offline/download.go)
//   - DownloadQueue: Per-item queue status of a run (internal/offline/download.go)
//
// ## Background Work Interfaces
//
//   - LanguageDownloader, LanguageClearer, Refresher: Task queue processors (internal/tasks/)
//   - SettingsStore: Persisted refresh schedule (internal/scheduler/refresh.go)
//
// # Adding a New Storage Backend
//
// Content can live in any key-value store:
//
//  1. Implement kvstore.Store in internal/kvstore/
//
//     type Redis struct {
//         client *redis.Client
//     }
//
//     func (r *Redis) Get(ctx context.Context, key string) ([]byte, error)
//     func (r *Redis) Set(ctx context.Context, key string, value []byte) error
//     func (r *Redis) Delete(ctx context.Context, key string) error
//     func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error)
//     func (r *Redis) Close() error
//
//     var _ Store = (*Redis)(nil)
//
//     Get must return ErrNotFound for missing keys.
//
//  2. Add a STORAGE_BACKEND value in internal/config/config.go
//
//  3. Open it in openContentStore (internal/entrypoint/app.go) and hand it to
//     repository.NewKVRepository
//
// # Adding a New Catalog Source
//
//  1. Implement catalog.Source
//
//     type GitSource struct {
//         repoURL string
//     }
//
//     func (s *GitSource) Name() string
//     func (s *GitSource) Stotras(ctx context.Context) ([]entities.Stotra, error)
//
//     Returned stotras must be copies the caller may modify.
//
//  2. Select it in NewApp (internal/entrypoint/app.go)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces

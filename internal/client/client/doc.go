// Package client is the HTTP side of the LearnSphere CLI.
//
// It provides:
//  1. The Transport contract used by the session layer, and HTTPClient, its
//     implementation over net/http: JSON bodies, bearer credentials,
//     X-Request-ID on every call, optional rate limiting.
//  2. PersistentJar, a cookie jar that can be exported and restored so the
//     server-set refresh cookie survives restarts.
//  3. Local database bootstrap (InitDatabase, RunMigrations) with embedded
//     goose migrations on SQLite.
//
// # Error Handling
//
// Non-2xx answers become *StatusError, which unwraps to
// common.ErrExpiredCredential (401), common.ErrForbidden (403) or
// common.ErrBusiness. Failures before any answer wrap common.ErrNetworkFailure.
//
// The transport never retries and never refreshes credentials.
package client

// Package fakeapi is an in-memory stand-in for the LearnSphere REST API.
//
// It issues short-lived JWT access tokens and a rotating refresh cookie,
// answers 401 on expired or revoked access tokens and serves the course
// catalogue, enrollments, progress and reviews. Hooks such as
// ExpireAccessTokens, DenyRefresh and Calls let tests drive the client's
// session lifecycle. cmd/server runs it as a standalone server.
package fakeapi

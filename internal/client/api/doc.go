// Package api exposes the LearnSphere REST endpoints as typed calls.
//
// Every call goes through a Requester, normally the session manager, so
// expired credentials are refreshed transparently. The package also carries
// the client-side helpers the screens need: catalogue filtering, sorting and
// paging, instructor statistics and YouTube link handling.
package api

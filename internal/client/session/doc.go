// Package session keeps track of who is logged in to LearnSphere and sends
// API requests on their behalf.
//
// A Manager holds the current Identity (user plus access credential), keeps
// a durable snapshot of it through a SnapshotStore, and recovers from
// access-credential expiry: the first request to see a 401 starts a call to
// the refresh endpoint, requests failing meanwhile wait for that same call,
// and each of them is replayed once with the new credential. If the refresh
// is denied the session is cleared and every waiter receives a
// *RefreshError.
//
// Typical wiring:
//
//	m := session.New(transport, store,
//	    session.WithLogger(log),
//	    session.WithSessionEndHandler(func(ctx context.Context, cause error) {
//	        // back to the login prompt
//	    }))
//	_ = m.Initialize(ctx)
//	<-m.Ready()
//	resp, err := m.Request(ctx, http.MethodGet, "/courses", nil)
package session

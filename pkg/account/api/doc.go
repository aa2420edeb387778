// Package api exposes the account service over HTTP with chi.
//
// Routes (mounted under the configured prefix, /api/auth by default):
//
//	POST /register       {email, password} -> 201 {message}
//	GET  /verify/{token} -> 200 text/plain
//	POST /login          {email, password} -> 200 {token}
//	GET  /me             Authorization: Bearer <session token> -> 200 {id, email, verified, created_at}
//
// Every failure body is {"message": "..."}. Unexpected failures are logged and
// answered with 500 "Server error".
package api

// Package service provides the application-level access services for
// projects and tasks. Every operation takes the authenticated actor
// explicitly; there is no ambient actor context. The services orchestrate
// the store, the authorization policy and (for tasks) the read-through
// cache, and dispatch background jobs without blocking the request path.
package service

// Package store defines the persistence interfaces and errors used by the
// application services. Implementations live under internal/platform.
package store

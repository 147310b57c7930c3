// Package store defines the persistence contracts for the study assistant.
// The backing document store is an external collaborator consumed through
// generic get/put/delete operations plus a snapshot-based subscription
// abstraction; implementations live under internal/platform.
package store

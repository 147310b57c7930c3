// Package service contains the application services that sit between the
// HTTP handlers and the stores: account registration and login, chat reply
// generation with debounced persistence, note generation with the one-time
// creation award, and quiz attempts with idempotent completion rewards.
package service

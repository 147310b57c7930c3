// Package api contains the HTTP handlers, request/response models, and
// error mapping for the EduPilot API. Handlers depend on narrow interfaces
// over the service layer and never touch the stores directly.
package api

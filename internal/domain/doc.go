// Package domain defines the core business entities of the study assistant:
// chat sessions, notes, quiz questions and results, and user profiles.
// Entities are plain structs with constructor functions that validate
// invariants up front; they carry no storage or transport concerns.
package domain

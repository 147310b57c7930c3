// Package generation provides the interfaces and pure transforms for
// interacting with the external AI model: prompt construction, the Generator
// boundary, and extraction of structured study artifacts from raw model text.
// It abstracts the details of LLM API integration (Gemini), allowing the
// application to generate chat replies, notes, and quizzes without coupling
// to a specific external service.
package generation

package generation

import (
	"fmt"

	"github.com/edupilot/edupilot-api/internal/domain"
)

// SystemInstruction steers the model toward its study-assistant role.
// It is configured once on the client, not injected per prompt.
const SystemInstruction = `You are EduPilot AI, a professional study assistant.
1. Provide clear, step-by-step solutions.
2. Use Markdown for formatting (bold headers, bullet points).
3. Use LaTeX for math formulas (e.g., $E = mc^2$).
4. If the user mentions "quiz", generate a 3-question multiple choice quiz.`

// QuizPrompt builds the prompt for a multiple-choice quiz. It encodes the
// exact question count, the difficulty label, and a strict output-format
// contract: a JSON array with fields id, question, options, answer and no
// surrounding prose or code fences.
//
// Boundary validation (non-empty topic, positive amount) is the caller's
// responsibility; this is a pure transform.
func QuizPrompt(topic string, amount int, difficulty domain.Difficulty) string {
	return fmt.Sprintf(`Generate a %s difficulty quiz about %q with %d questions.
Strictly return a valid JSON array of objects.
Each object must have:
- "id": number (1 to %d)
- "question": string
- "options": array of 4 strings
- "answer": number (0-3, index of the correct option)

Example format:
[
  {
    "id": 1,
    "question": "What is ...?",
    "options": ["A", "B", "C", "D"],
    "answer": 0
  }
]

Do NOT include any markdown code blocks or text outside the JSON array.`,
		difficulty, topic, amount, amount)
}

// NotePrompt builds the prompt for study-note generation: topic plus an
// approximate word count, requesting pure Markdown output.
func NotePrompt(topic string, wordCount int) string {
	return fmt.Sprintf("Generate comprehensive study notes for the topic: %s. "+
		"The notes should be approximately %d words long. "+
		"Format with clear headings, bullet points, and key concepts. "+
		"Output pure Markdown.", topic, wordCount)
}

// ChatPrompt returns the latest user message content verbatim. No
// instructions are injected here; the system role is configured once for the
// whole client.
func ChatPrompt(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

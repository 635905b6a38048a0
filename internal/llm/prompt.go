package llm

import (
	"fmt"
	"strings"

	"github.com/bull/research-assistant/internal/history"
)

// promptTemplate is the fixed instruction frame for every answer. The
// retrieved context, the formatted conversation history, and the question
// are substituted in, in that order.
const promptTemplate = `You are a research assistant who helps the user understand data from their files.

Think step by step before providing an answer. Elaborate and answer the question based only on the provided context.
Do not go out of context to answer the question; if the answer is not present in the given context then you do not have to answer the question.
<context>
%s
</context>
<history>
%s
</history>
Question: %s
If you do not understand the question, ask clarifying questions.
Do not include any preamble with your answer.`

// BuildPrompt renders the full prompt for one query.
func BuildPrompt(contextText, historyText, query string) string {
	return fmt.Sprintf(promptTemplate, contextText, historyText, query)
}

// FormatHistory renders prior turns for the prompt, oldest first.
// Returns "(no prior conversation)" when the log is empty so the template
// slot is never blank.
func FormatHistory(turns []history.Turn) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}

	var b strings.Builder
	for _, turn := range turns {
		b.WriteString("User: ")
		b.WriteString(turn.User)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Assistant)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

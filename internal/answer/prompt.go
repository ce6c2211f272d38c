package answer

import (
	"fmt"
	"strings"
)

// RAGTemplate constrains the model to the retrieved passages. The first
// placeholder is the concatenated context, the second the user's question.
const RAGTemplate = `Answer the question based only on the following context:
%s

Question: %s`

// BuildRAGPrompt joins the retrieved passages with blank lines and fills
// the template.
func BuildRAGPrompt(passages []string, question string) string {
	return fmt.Sprintf(RAGTemplate, strings.Join(passages, "\n\n"), question)
}

package driven

// PromptStore supplies the templates used to ask the generator.
type PromptStore interface {
	// Load returns the template for name. Unknown names are an error.
	Load(name string) (string, error)
}

// Prompt names.
const (
	// PromptAnswerSystem is the system turn. It has no placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser wraps a question. Its three %s placeholders take
	// the question, the retrieved context and the source info, in order.
	PromptAnswerUser = "answer_user"
)

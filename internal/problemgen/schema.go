package problemgen

import "github.com/abhisek/mathmood/internal/llm"

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	QuestionText string `json:"question_text" jsonschema:"description=The question shown to the learner in plain text without the answer"`
	Answer       string `json:"answer" jsonschema:"description=The correct answer as a single number: an integer or a decimal or a fraction a/b"`
	AnswerType   string `json:"answer_type" jsonschema:"enum=integer,enum=decimal,enum=fraction"`
	Explanation  string `json:"explanation" jsonschema:"description=Short step-by-step worked solution for a child"`
}

// QuestionSchema defines the JSON schema for LLM question generation responses.
var QuestionSchema = llm.MustSchemaFor[questionOutput](
	"math-question",
	"A single math practice question with its answer and explanation",
)

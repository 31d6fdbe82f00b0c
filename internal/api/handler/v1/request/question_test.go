package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskQuestionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&AskQuestionRequest{Question: "Is there parking?"}).Validate())
	assert.Error(t, (&AskQuestionRequest{Question: ""}).Validate())
	assert.Error(t, (&AskQuestionRequest{Question: " \n\t "}).Validate())
}

func TestCreateQuestionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateQuestionRequest{EventID: 1, Question: "Why?"}).Validate())
	assert.Error(t, (&CreateQuestionRequest{Question: "Why?"}).Validate())
	assert.Error(t, (&CreateQuestionRequest{EventID: 1, Question: "  "}).Validate())
}

package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AskQuestionRequest struct {
	Question string `json:"question" example:"Is there parking nearby?"`
}

func (req *AskQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Question, validation.Required, validation.By(notBlank), validation.Length(1, 1000)),
	)
}

type CreateQuestionRequest struct {
	EventID  uint   `json:"event_id" example:"1"`
	Question string `json:"question" example:"Is there parking nearby?"`
}

func (req *CreateQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Question, validation.Required, validation.By(notBlank), validation.Length(1, 1000)),
	)
}

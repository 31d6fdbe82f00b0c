package response

type HealthResponse struct {
	Status string `json:"status" example:"Alive"`
}

type MessageResponse struct {
	Message string `json:"message" example:"registered"`
}

// SignupResponse carries user_id for a single signup and user_ids for a batch.
type SignupResponse struct {
	UserID  uint   `json:"user_id,omitempty"`
	UserIDs []uint `json:"user_ids,omitempty"`
}

type LoginResponse struct {
	UserID       uint   `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// CreateEventsResponse carries event_id for a single event and event_ids for a batch.
type CreateEventsResponse struct {
	EventID  uint   `json:"event_id,omitempty"`
	EventIDs []uint `json:"event_ids,omitempty"`
}

type QuestionCreatedResponse struct {
	QuestionID uint `json:"question_id"`
}

type VoteResponse struct {
	QuestionID uint `json:"question_id"`
	Votes      int  `json:"votes"`
}

package dto

// ChatRequest: a single-turn chatbot question
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ChatResponse: the assistant's reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

package request_models

type StartSessionRequest struct {
	// Locale overrides the resolved request locale when set.
	Locale string `json:"locale" binding:"omitempty,oneof=en es"`
}

type ConcernRequest struct {
	Concern string `json:"concern" binding:"required,max=1000"`
}

type AnswerRequest struct {
	Option string `json:"option" binding:"required"`
}

type LocaleRequest struct {
	Locale string `json:"locale" binding:"required"`
}

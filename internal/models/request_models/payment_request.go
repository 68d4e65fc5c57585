package request_models

// ChargeRequest carries the card token produced by the client-side payment form.
type ChargeRequest struct {
	Plan     string `json:"plan" binding:"required,oneof=starter standard premium complete"`
	SourceID string `json:"source_id" binding:"required"`
}

type UpgradeRequest struct {
	SourceID string `json:"source_id" binding:"required"`
}

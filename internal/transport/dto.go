package transport

import "github.com/Skotchmaster/recommendations/internal/models"

// RecommendationRequest is a body that passed DecodeRecommendation.
type RecommendationRequest struct {
	SrcProductID int64
	RecProductID int64
	Type         models.Type
	Status       models.Status
}

// Apply copies the mutable fields onto rec, leaving its id untouched.
func (r RecommendationRequest) Apply(rec *models.Recommendation) {
	rec.SrcProductID = r.SrcProductID
	rec.RecProductID = r.RecProductID
	rec.Type = r.Type
	rec.Status = r.Status
}

func (r RecommendationRequest) Model() *models.Recommendation {
	rec := &models.Recommendation{}
	r.Apply(rec)
	return rec
}

// Filter is a single equality criterion for listing. The zero Filter matches everything.
type Filter struct {
	Field string
	Value any
}

func (f Filter) IsZero() bool { return f.Field == "" }

type IndexResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Paths   string `json:"paths"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

package model

// SubjectType names the kind of catalogue entity an eligibility query
// targets.
type SubjectType string

const (
	SubjectProduct  SubjectType = "product"
	SubjectCategory SubjectType = "category"
)

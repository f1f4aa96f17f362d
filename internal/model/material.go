package model

type MaterialCategory string

const (
	CategoryNutrition      MaterialCategory = "nutrition"
	CategoryPrenatal       MaterialCategory = "prenatal"
	CategoryPostnatal      MaterialCategory = "postnatal"
	CategoryImmunization   MaterialCategory = "immunization"
	CategoryFamilyPlanning MaterialCategory = "family_planning"
	CategoryGeneral        MaterialCategory = "general"
)

type EducationalMaterial struct {
	Base
	Title     string           `db:"title" json:"title"`
	Category  MaterialCategory `db:"category" json:"category"`
	Body      string           `db:"body" json:"body"`
	ImageKey  string           `db:"image_key" json:"image_key,omitempty"`
	Published bool             `db:"published" json:"published"`
}

type CreateMaterialRequest struct {
	Title    string           `json:"title" binding:"required,max=255"`
	Category MaterialCategory `json:"category" binding:"required,oneof=nutrition prenatal postnatal immunization family_planning general"`
	Body     string           `json:"body" binding:"required"`
}

type UpdateMaterialRequest struct {
	Title    *string           `json:"title" binding:"omitempty,max=255"`
	Category *MaterialCategory `json:"category" binding:"omitempty,oneof=nutrition prenatal postnatal immunization family_planning general"`
	Body     *string           `json:"body"`
}

package model

// SaveObservationRequest is the form payload for saving one observation.
// Ratings are validated to [1,5]; the work method is a closed enumeration.
// Roster and tag-catalog membership are checked against the catalog in the
// service layer.
type SaveObservationRequest struct {
	Date          string   `json:"date"`
	StudentName   string   `json:"student_name" validate:"required"`
	WorkMethod    string   `json:"work_method" validate:"required,oneof='with printed body' 'without body (imagination)'"`
	Challenge     string   `json:"challenge" validate:"required"`
	Insight       string   `json:"insight"`
	Difficulty    int      `json:"difficulty" validate:"min=1,max=5"`
	CatDimsProps  int      `json:"cat_dims_props" validate:"min=1,max=5"`
	CatConvertRep int      `json:"cat_convert_rep" validate:"min=1,max=5"`
	CatProjTrans  int      `json:"cat_proj_trans" validate:"min=1,max=5"`
	Cat3DSupport  int      `json:"cat_3d_support" validate:"min=1,max=5"`
	Tags          []string `json:"tags" validate:"unique"`
}

// SelectStudentRequest is the body for POST /v1/sessions/{id}/student.
type SelectStudentRequest struct {
	StudentName string `json:"student_name"`
}

// ReflectRequest is the body for POST /v1/sessions/{id}/reflect.
type ReflectRequest struct {
	Challenge string `json:"challenge"`
}

// ChatRequest is the body for POST /v1/sessions/{id}/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

package model

import "strings"

type WorkMethod string

const (
	WorkMethodPrintedBody WorkMethod = "with printed body"
	WorkMethodImagination WorkMethod = "without body (imagination)"
)

// WorkMethods lists the closed set of work methods in UI order.
var WorkMethods = []WorkMethod{WorkMethodPrintedBody, WorkMethodImagination}

// Observation is one saved entry of the instructor's log. Immutable once
// appended; every rating is an integer in [1,5].
type Observation struct {
	Date          string     `json:"date"`
	Timestamp     string     `json:"timestamp"`
	StudentName   string     `json:"student_name"`
	WorkMethod    WorkMethod `json:"work_method"`
	Challenge     string     `json:"challenge"`
	Insight       string     `json:"insight"`
	Difficulty    int        `json:"difficulty"`
	CatDimsProps  int        `json:"cat_dims_props"`
	CatConvertRep int        `json:"cat_convert_rep"`
	CatProjTrans  int        `json:"cat_proj_trans"`
	Cat3DSupport  int        `json:"cat_3d_support"`
	Tags          []string   `json:"tags"`
	FileLinks     []string   `json:"file_links"`
}

// Canonical normalizes a student name for comparison: leading/trailing
// whitespace trimmed, internal runs collapsed to single spaces, lower-cased.
// The write side and the read side must both go through here.
func Canonical(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

package model

import "time"

// ChatTurn is one question/answer pair in a session's chat transcript.
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the per-dashboard-session UI state. It lives in the session
// store for the duration of one browser session; the observation log is the
// only state that outlives it.
type Session struct {
	ID string `json:"id"`

	// FormInstance increases by exactly one on each successful save so the
	// page can reset its widgets for a fresh entry.
	FormInstance int `json:"form_instance"`

	LastSelectedStudent string `json:"last_selected_student"`

	// StudentContext is the rendered block of the selected student's recent
	// observations, empty when there are none.
	StudentContext    string `json:"student_context"`
	ShowHistoryBanner bool   `json:"show_history_banner"`

	// LastFeedback is the most recent reflection; cleared on save.
	LastFeedback string     `json:"last_feedback"`
	ChatHistory  []ChatTurn `json:"chat_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

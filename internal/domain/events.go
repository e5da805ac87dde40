package domain

// Outbound event types, named after the events display clients already render.
const (
	EventGameCreated     = "game_created"
	EventCreationFailed  = "creation_failed"
	EventJoinSuccess     = "join_success"
	EventJoinFailed      = "join_failed"
	EventRosterUpdated   = "player_joined"
	EventQuestionStarted = "new_question"
	EventAnswerScored    = "question_results"
	EventLeaderboard     = "podium_update"
	EventGameFinished    = "game_finished"
	EventError           = "error"
)

// Event is a single outbound message addressed to one connection.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

func TestSingleQuestionGameScenario(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()
	service, registry := newTestService(rec)

	pin, err := service.CreateSession(ctx, "quiz-1", "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	roster, err := service.Join(ctx, pin, "alice", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !reflect.DeepEqual(roster, []domain.Standing{{Name: "Alice", Score: 0}}) {
		t.Fatalf("unexpected roster %+v", roster)
	}

	if res := service.Advance(ctx, pin, "admin"); res.Status != app.AdvanceQuestionStarted {
		t.Fatalf("expected question started, got %v", res.Status)
	}
	question, ok := rec.last("alice", domain.EventQuestionStarted)
	want := domain.QuestionPayload{Index: 0, Text: "2+2?", Options: []string{"3", "4", "5", "6"}}
	if !ok || !reflect.DeepEqual(question.Payload, want) {
		t.Fatalf("expected %+v, got %+v", want, question.Payload)
	}

	result, scored := service.SubmitAnswer(ctx, pin, "alice", 1, 2000)
	if !scored {
		t.Fatalf("expected answer to be scored")
	}
	wantResult := domain.AnswerResult{Correct: true, PointsGained: 800, CorrectIndex: 1, NewScore: 800}
	if result != wantResult {
		t.Fatalf("expected %+v, got %+v", wantResult, result)
	}
	scoredEvent, _ := rec.last("alice", domain.EventAnswerScored)
	if scoredEvent.Payload != wantResult {
		t.Fatalf("expected unicast %+v, got %+v", wantResult, scoredEvent.Payload)
	}
	snapshot, ok := rec.last("admin", domain.EventLeaderboard)
	if !ok || !reflect.DeepEqual(snapshot.Payload, []domain.Standing{{Name: "Alice", Score: 800}}) {
		t.Fatalf("expected leaderboard snapshot, got %+v", snapshot.Payload)
	}

	res := service.Advance(ctx, pin, "admin")
	if res.Status != app.AdvanceFinished {
		t.Fatalf("expected finished, got %v", res.Status)
	}
	finished, ok := rec.last("alice", domain.EventGameFinished)
	if !ok || !reflect.DeepEqual(finished.Payload, []domain.Standing{{Name: "Alice", Score: 800}}) {
		t.Fatalf("expected game finished ranking, got %+v", finished.Payload)
	}
	if _, err := registry.Lookup(pin); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected pin to stop resolving, got %v", err)
	}
}

func TestServiceJoinRejections(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(newRecorder())

	if _, err := service.Join(ctx, "0000", "p1", "Alice"); domain.Reason(err) != domain.ReasonInvalidPIN {
		t.Fatalf("expected invalid_pin, got %v", err)
	}

	pin, err := service.CreateSession(ctx, "quiz-1", "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Join(ctx, pin, "p1", "   "); domain.Reason(err) != domain.ReasonInvalidName {
		t.Fatalf("expected invalid_name, got %v", err)
	}
	if _, err := service.Join(ctx, pin, "p1", " Alice "); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := service.Join(ctx, pin, "p2", "Alice"); domain.Reason(err) != domain.ReasonNameTaken {
		t.Fatalf("expected name_taken, got %v", err)
	}
}

func TestServiceIgnoresUnknownPins(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(newRecorder())

	if res := service.Advance(ctx, "9999", "admin"); res.Status != app.AdvanceIgnored {
		t.Fatalf("expected ignored advance, got %v", res.Status)
	}
	if _, scored := service.SubmitAnswer(ctx, "9999", "p1", 0, 0); scored {
		t.Fatalf("expected ignored answer")
	}
	service.Leave(ctx, "9999", "p1")
	if err := service.Watch(ctx, "9999", "projector"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceListQuizzes(t *testing.T) {
	service, _ := newTestService(newRecorder())

	summaries, err := service.ListQuizzes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 quizzes, got %+v", summaries)
	}
	counts := map[string]int{}
	for _, s := range summaries {
		counts[s.ID] = s.QuestionCount
	}
	if counts["quiz-1"] != 1 || counts["quiz-2"] != 2 {
		t.Fatalf("unexpected question counts %+v", counts)
	}
}

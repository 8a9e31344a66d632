package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/edusight/reportgen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestArtifact(t *testing.T, s *Store, studentID, token string, createdAt time.Time) int64 {
	t.Helper()
	id, err := s.SaveArtifact(model.ReportArtifact{
		StudentID:   studentID,
		Token:       token,
		Filename:    studentID + "-report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-stub " + token),
		CreatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("insertTestArtifact: %v", err)
	}
	return id
}

func TestArtifactRoundtrip(t *testing.T) {
	s := newTestStore(t)

	count, err := s.ArtifactCount("s1")
	if err != nil {
		t.Fatalf("ArtifactCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 artifacts, got %d", count)
	}

	insertTestArtifact(t, s, "s1", "tok-1", time.Time{})

	a, err := s.LatestArtifact("s1")
	if err != nil {
		t.Fatalf("LatestArtifact: %v", err)
	}
	if a.Token != "tok-1" {
		t.Errorf("token = %q, want tok-1", a.Token)
	}
	if a.Filename != "s1-report.pdf" {
		t.Errorf("filename = %q", a.Filename)
	}
	if a.ContentType != "application/pdf" {
		t.Errorf("content type = %q", a.ContentType)
	}
	if string(a.Data) != "%PDF-stub tok-1" {
		t.Errorf("data = %q", a.Data)
	}
	if a.CreatedAt.IsZero() {
		t.Error("created_at should be set on save")
	}
}

func TestLatestArtifactWins(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	insertTestArtifact(t, s, "s1", "tok-old", base)
	insertTestArtifact(t, s, "s1", "tok-new", base.Add(time.Minute))
	insertTestArtifact(t, s, "s2", "tok-other", base.Add(2*time.Minute))

	a, err := s.LatestArtifact("s1")
	if err != nil {
		t.Fatalf("LatestArtifact: %v", err)
	}
	if a.Token != "tok-new" {
		t.Errorf("latest token = %q, want tok-new", a.Token)
	}

	count, err := s.ArtifactCount("s1")
	if err != nil {
		t.Fatalf("ArtifactCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestLatestArtifactSameTimestamp(t *testing.T) {
	s := newTestStore(t)

	// Identical timestamps fall back to insertion order.
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	insertTestArtifact(t, s, "s1", "tok-a", at)
	insertTestArtifact(t, s, "s1", "tok-b", at)

	a, err := s.LatestArtifact("s1")
	if err != nil {
		t.Fatalf("LatestArtifact: %v", err)
	}
	if a.Token != "tok-b" {
		t.Errorf("latest token = %q, want tok-b", a.Token)
	}
}

func TestLatestArtifactNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestArtifact("missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestDuplicateTokenRejected(t *testing.T) {
	s := newTestStore(t)

	insertTestArtifact(t, s, "s1", "tok-1", time.Time{})
	_, err := s.SaveArtifact(model.ReportArtifact{
		StudentID: "s2",
		Token:     "tok-1",
		Filename:  "s2-report.pdf",
		Data:      []byte("x"),
	})
	if err == nil {
		t.Error("duplicate token should be rejected")
	}
}

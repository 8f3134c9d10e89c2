package triage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/siddhesh434/jansunwai-indore/internal/analysis"
	"github.com/siddhesh434/jansunwai-indore/internal/db"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
)

func TestSubmitRequiresFields(t *testing.T) {
	s := &Service{Logger: zerolog.Nop()}
	_, err := s.Submit(context.Background(), SubmissionInput{Title: "t"})
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
}

func TestSubmitRejectsUnknownStatus(t *testing.T) {
	s := &Service{Logger: zerolog.Nop()}
	_, err := s.Submit(context.Background(), SubmissionInput{
		Title:        "t",
		AuthorID:     "u1",
		DepartmentID: "d1",
		Status:       "archived",
	})
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission for unknown status, got %v", err)
	}
}

func TestPrestoredAnalysesMatched(t *testing.T) {
	attachments := []models.Attachment{
		{StoredName: "a_one.jpg", MimeType: "image/jpeg", SizeBytes: 10},
		{StoredName: "b_two.jpg", MimeType: "image/jpeg", SizeBytes: 20},
	}
	provided := []models.AttachmentAnalysis{
		{MimeType: "image/jpeg", Summary: "first"},
		{MimeType: "image/jpeg", Summary: "second"},
	}
	got := prestoredAnalyses(attachments, provided)
	if len(got) != 2 || got[0].Summary != "first" || got[1].Summary != "second" {
		t.Fatalf("expected provided analyses passed through in order, got %+v", got)
	}
}

func TestPrestoredAnalysesMismatchDegrades(t *testing.T) {
	attachments := []models.Attachment{
		{StoredName: "a_one.jpg", MimeType: "image/jpeg", SizeBytes: 10},
		{StoredName: "b_two.pdf", MimeType: "application/pdf", SizeBytes: 20},
	}
	got := prestoredAnalyses(attachments, []models.AttachmentAnalysis{{Summary: "only one"}})
	if len(got) != len(attachments) {
		t.Fatalf("analyses must mirror attachments, got %d for %d", len(got), len(attachments))
	}
	for i, a := range got {
		if a.MimeType != attachments[i].MimeType {
			t.Fatalf("slot %d: expected mime %q, got %q", i, attachments[i].MimeType, a.MimeType)
		}
		if a.Summary != analysis.SummaryFallback || a.Description != analysis.DescriptionFallback {
			t.Fatalf("slot %d: expected fallback literals, got %+v", i, a)
		}
		if a.Metadata["sizeBytes"] != attachments[i].SizeBytes {
			t.Fatalf("slot %d: expected sizeBytes %d, got %v", i, attachments[i].SizeBytes, a.Metadata["sizeBytes"])
		}
	}
}

func TestPrestoredAnalysesEmpty(t *testing.T) {
	got := prestoredAnalyses(nil, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func newIntegrationService(t *testing.T) (*Service, *db.Store) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := db.New(context.Background(), url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	files, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("disk: %v", err)
	}
	return &Service{
		Store:    store,
		Text:     llm.Mock{},
		Vision:   llm.Mock{},
		Files:    files,
		Logger:   zerolog.Nop(),
		CallTime: 5 * time.Second,
	}, store
}

func seedAuthorAndDept(t *testing.T, store *db.Store) (string, string) {
	t.Helper()
	ctx := context.Background()
	u := models.User{ID: "triage-test-user", Username: "triage_test", Name: "Triage Test", CreatedAt: time.Now().UTC()}
	_ = store.CreateUser(ctx, u)
	d := models.Department{ID: "triage-test-dept", Name: "Triage Test Department", CreatedAt: time.Now().UTC()}
	_ = store.CreateDepartment(ctx, d)
	return u.ID, d.ID
}

func TestSubmitIntegration_NoFiles(t *testing.T) {
	svc, store := newIntegrationService(t)
	author, dept := seedAuthorAndDept(t, store)

	res, err := svc.Submit(context.Background(), SubmissionInput{
		Title:        "Streetlight out on Ring Road",
		Description:  "Dark stretch near the flyover",
		AuthorID:     author,
		DepartmentID: dept,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer store.DeleteComplaint(context.Background(), res.Complaint.ID)

	if len(res.Complaint.Attachments) != 0 || len(res.Complaint.Analyses) != 0 {
		t.Fatalf("expected empty attachment arrays, got %+v", res.Complaint)
	}
	if res.Complaint.Status != models.StatusOpen {
		t.Fatalf("expected default status open, got %q", res.Complaint.Status)
	}
	if res.Complaint.Urgency == nil {
		t.Fatalf("expected urgency set by mock provider")
	}
	if res.Complaint.Urgency.Score < 1 || res.Complaint.Urgency.Score > 5 {
		t.Fatalf("urgency score out of range: %d", res.Complaint.Urgency.Score)
	}

	loaded, err := store.GetComplaint(context.Background(), res.Complaint.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Urgency == nil || loaded.Urgency.Score != res.Complaint.Urgency.Score {
		t.Fatalf("urgency not round-tripped: %+v", loaded.Urgency)
	}
}

func TestSubmitIntegration_UrgencyUnsetOnProviderFailure(t *testing.T) {
	svc, store := newIntegrationService(t)
	author, dept := seedAuthorAndDept(t, store)
	svc.Text = &fakeProvider{err: errors.New("provider down")}

	res, err := svc.Submit(context.Background(), SubmissionInput{
		Title:        "Garbage pileup",
		AuthorID:     author,
		DepartmentID: dept,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer store.DeleteComplaint(context.Background(), res.Complaint.ID)

	if res.Complaint.Urgency != nil {
		t.Fatalf("expected urgency unset, got %+v", res.Complaint.Urgency)
	}
	found := false
	for _, d := range res.Degraded {
		if d == ReasonUrgencyUnset {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s in degraded reasons, got %v", ReasonUrgencyUnset, res.Degraded)
	}
}

func TestSubmitIntegration_PrestoredAttachments(t *testing.T) {
	svc, store := newIntegrationService(t)
	author, dept := seedAuthorAndDept(t, store)

	stored, err := svc.Files.Save("leak.jpg", []byte("image bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := svc.Submit(context.Background(), SubmissionInput{
		Title:        "Water leakage",
		AuthorID:     author,
		DepartmentID: dept,
		Attachments: []models.Attachment{
			{StoredName: stored, OriginalName: "leak.jpg", MimeType: "image/jpeg", SizeBytes: 11},
		},
		Analyses: []models.AttachmentAnalysis{
			{MimeType: "image/jpeg", Metadata: map[string]any{"sizeBytes": int64(11)}, Description: "a leaking pipe", Summary: "pipe leaks near the road"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer store.DeleteComplaint(context.Background(), res.Complaint.ID)

	if len(res.Complaint.Attachments) != 1 || res.Complaint.Attachments[0].StoredName != stored {
		t.Fatalf("expected prestored attachment persisted, got %+v", res.Complaint.Attachments)
	}
	if len(res.Complaint.Analyses) != 1 || res.Complaint.Analyses[0].Summary != "pipe leaks near the road" {
		t.Fatalf("expected provided analysis persisted unchanged, got %+v", res.Complaint.Analyses)
	}

	loaded, err := store.GetComplaint(context.Background(), res.Complaint.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Attachments) != 1 || loaded.Analyses[0].Description != "a leaking pipe" {
		t.Fatalf("prestored data not round-tripped: %+v", loaded)
	}
}

func TestSubmitIntegration_WithFile(t *testing.T) {
	svc, store := newIntegrationService(t)
	author, dept := seedAuthorAndDept(t, store)

	res, err := svc.Submit(context.Background(), SubmissionInput{
		Title:        "Pothole photo",
		AuthorID:     author,
		DepartmentID: dept,
		Files: []SubmissionFile{
			{Name: "pothole.txt", MimeType: "text/plain", Data: []byte("deep pothole near bus stop")},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer store.DeleteComplaint(context.Background(), res.Complaint.ID)

	if len(res.Complaint.Attachments) != 1 || len(res.Complaint.Analyses) != 1 {
		t.Fatalf("expected one attachment and one analysis, got %+v", res.Complaint)
	}
	att := res.Complaint.Attachments[0]
	if att.OriginalName != "pothole.txt" || att.StoredName == "" {
		t.Fatalf("unexpected attachment %+v", att)
	}
	if res.Complaint.Analyses[0].Summary == "" {
		t.Fatalf("expected non-empty summary")
	}
}

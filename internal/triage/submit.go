package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/siddhesh434/jansunwai-indore/internal/analysis"
	"github.com/siddhesh434/jansunwai-indore/internal/db"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
)

// Degradation reason codes recorded when a best-effort step fails.
const (
	ReasonAnalysisFailed = "ATTACHMENT_ANALYSIS_FAILED"
	ReasonUrgencyUnset   = "URGENCY_UNSET"
)

var ErrInvalidSubmission = errors.New("triage: invalid submission")

// Service orchestrates complaint intake: file storage, per-attachment
// analysis, urgency scoring, persistence.
type Service struct {
	Store    *db.Store
	Text     llm.Provider
	Vision   llm.VisionProvider
	Files    *storage.Disk
	Logger   zerolog.Logger
	CallTime time.Duration
}

type SubmissionFile struct {
	Name     string
	MimeType string
	Data     []byte
}

type SubmissionInput struct {
	Title        string
	Description  string
	Address      string
	AuthorID     string
	DepartmentID string
	Status       string
	Files        []SubmissionFile
	// Attachments already stored (via the analyze endpoint flow) and sent as
	// JSON instead of file uploads. Only honored when Files is empty.
	Attachments []models.Attachment
	// Analyses precomputed client-side for the files or attachments at the
	// same positions. Skips re-running the pipeline.
	Analyses []models.AttachmentAnalysis
}

// SubmissionResult reports the persisted complaint plus explicit reasons for
// every step that degraded instead of failing the request.
type SubmissionResult struct {
	Complaint models.Complaint `json:"complaint"`
	Degraded  []string         `json:"degraded,omitempty"`
}

// Submit runs the intake pipeline. File storage and persistence must succeed;
// describe/summarize failures degrade per file, urgency failure leaves the
// urgency fields unset. Attachment analyses land in upload order regardless
// of the concurrent fan-out.
func (s *Service) Submit(ctx context.Context, in SubmissionInput) (SubmissionResult, error) {
	if in.Title == "" || in.AuthorID == "" || in.DepartmentID == "" {
		return SubmissionResult{}, fmt.Errorf("%w: title, author_id and department_id are required", ErrInvalidSubmission)
	}
	status := in.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !models.ValidStatus(status) {
		return SubmissionResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidSubmission, in.Status)
	}

	attachments := make([]models.Attachment, len(in.Files))
	for i, f := range in.Files {
		stored, err := s.Files.Save(f.Name, f.Data)
		if err != nil {
			return SubmissionResult{}, fmt.Errorf("store attachment %q: %w", f.Name, err)
		}
		attachments[i] = models.Attachment{
			StoredName:   stored,
			OriginalName: f.Name,
			MimeType:     analysis.InferMimeType(f.MimeType, f.Data),
			SizeBytes:    int64(len(f.Data)),
			Location:     s.Files.Path(stored),
		}
	}
	if len(in.Files) == 0 && len(in.Attachments) > 0 {
		attachments = in.Attachments
	}

	analyses := make([]models.AttachmentAnalysis, len(in.Files))
	degradedAt := make([]bool, len(in.Files))

	if len(in.Files) == 0 {
		analyses = prestoredAnalyses(attachments, in.Analyses)
	} else if len(in.Analyses) == len(in.Files) {
		copy(analyses, in.Analyses)
	} else {
		var wg sync.WaitGroup
		for i := range in.Files {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				f := in.Files[i]
				actx, cancel := s.callContext(ctx)
				defer cancel()
				a, err := analysis.AnalyzeAttachment(actx, s.Text, s.Vision, f.Data, f.Name, f.MimeType)
				if err != nil {
					s.Logger.Warn().Err(err).Str("file", f.Name).Msg("attachment analysis degraded")
					analyses[i] = analysis.DegradedAnalysis(f.Data, f.MimeType)
					degradedAt[i] = true
					return
				}
				analyses[i] = a
			}(i)
		}
		wg.Wait()
	}

	var degraded []string
	for i, bad := range degradedAt {
		if bad {
			degraded = append(degraded, fmt.Sprintf("%s:%s", ReasonAnalysisFailed, attachments[i].StoredName))
		}
	}

	var urgency *models.Urgency
	summaries := make([]string, 0, len(analyses))
	for _, a := range analyses {
		summaries = append(summaries, a.Summary)
	}
	uctx, cancel := s.callContext(ctx)
	scored, err := ScoreUrgency(uctx, s.Text, in.Title, in.Description, summaries)
	cancel()
	if err != nil {
		s.Logger.Warn().Err(err).Msg("urgency scoring failed, fields left unset")
		degraded = append(degraded, ReasonUrgencyUnset)
	} else {
		urgency = &scored
	}

	now := time.Now().UTC()
	c := models.Complaint{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Address:      in.Address,
		AuthorID:     in.AuthorID,
		DepartmentID: in.DepartmentID,
		Status:       status,
		Attachments:  attachments,
		Analyses:     analyses,
		Urgency:      urgency,
		Thread:       []models.ThreadMessage{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.CreateComplaint(ctx, c); err != nil {
		return SubmissionResult{}, err
	}
	return SubmissionResult{Complaint: c, Degraded: degraded}, nil
}

// prestoredAnalyses reconciles client-supplied analyses with pre-stored
// attachments. On a length mismatch every slot degrades to the fallback
// literals, so the analyses list always mirrors the attachments list.
func prestoredAnalyses(attachments []models.Attachment, provided []models.AttachmentAnalysis) []models.AttachmentAnalysis {
	out := make([]models.AttachmentAnalysis, len(attachments))
	if len(provided) == len(attachments) {
		copy(out, provided)
		return out
	}
	for i, att := range attachments {
		out[i] = models.AttachmentAnalysis{
			MimeType:    att.MimeType,
			Metadata:    map[string]any{"sizeBytes": att.SizeBytes},
			Description: analysis.DescriptionFallback,
			Summary:     analysis.SummaryFallback,
		}
	}
	return out
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.CallTime
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

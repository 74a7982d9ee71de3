package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/divvy/backend/internal/domain/entity"
	"github.com/divvy/backend/internal/integration/email/templates"
)

// fakeEmailQueue is an in-memory EmailQueueRepository for worker tests.
type fakeEmailQueue struct {
	jobs map[uuid.UUID]*entity.EmailJob
}

func newFakeEmailQueue() *fakeEmailQueue {
	return &fakeEmailQueue{jobs: make(map[uuid.UUID]*entity.EmailJob)}
}

func (q *fakeEmailQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeEmailQueue) GetPendingJobs(_ context.Context, limit int) ([]*entity.EmailJob, error) {
	var out []*entity.EmailJob
	for _, job := range q.jobs {
		if job.IsReadyToProcess() && len(out) < limit {
			out = append(out, job)
		}
	}
	return out, nil
}

func (q *fakeEmailQueue) Update(_ context.Context, job *entity.EmailJob) error {
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeEmailQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	job, ok := q.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (q *fakeEmailQueue) GetByRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	var out []*entity.EmailJob
	for _, job := range q.jobs {
		if job.RecipientEmail == email {
			out = append(out, job)
		}
	}
	return out, nil
}

func (q *fakeEmailQueue) DeleteOldSentJobs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func newTestWorker(t *testing.T) (*Worker, *fakeEmailQueue, *MockEmailSender) {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	queue := newFakeEmailQueue()
	sender := NewMockEmailSender()
	return NewWorker(queue, sender, renderer, DefaultWorkerConfig()), queue, sender
}

func invitationJob() *entity.EmailJob {
	return entity.NewEmailJob(
		entity.TemplateEventInvitation,
		"lan@example.com",
		"Lan",
		"Hung invited you to Da Nang Trip - Divvy",
		map[string]interface{}{
			"inviter_name": "Hung",
			"invitee_name": "Lan",
			"event_name":   "Da Nang Trip",
			"currency":     "VND",
			"event_url":    "http://localhost:5173/events/abc",
		},
	)
}

func TestWorkerDeliversPendingJob(t *testing.T) {
	worker, queue, sender := newTestWorker(t)
	job := invitationJob()
	queue.jobs[job.ID] = job

	worker.ProcessNow(context.Background())

	if len(sender.SentEmails) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.SentEmails))
	}
	sent := sender.SentEmails[0]
	if sent.To != "lan@example.com" {
		t.Errorf("To = %q", sent.To)
	}
	if sent.HTML == "" || sent.Text == "" {
		t.Error("expected both HTML and text bodies")
	}
	if job.Status != entity.EmailStatusSent {
		t.Errorf("status = %s, want sent", job.Status)
	}
	if job.ResendID == "" {
		t.Error("expected provider id recorded on the job")
	}
	if job.ProcessedAt == nil {
		t.Error("expected processed_at set")
	}
}

func TestWorkerRetriesTemporaryFailure(t *testing.T) {
	worker, queue, sender := newTestWorker(t)
	sender.SetFailure(errors.New("resend 500"), false)
	job := invitationJob()
	queue.jobs[job.ID] = job

	worker.ProcessNow(context.Background())

	if job.Status != entity.EmailStatusPending {
		t.Fatalf("status = %s, want pending", job.Status)
	}
	if job.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", job.Attempts)
	}
	if !job.ScheduledAt.After(time.Now().UTC()) {
		t.Error("expected the retry to be scheduled in the future")
	}

	// Not due yet, so another pass leaves it alone.
	worker.ProcessNow(context.Background())
	if job.Attempts != 1 {
		t.Errorf("attempts after early pass = %d, want 1", job.Attempts)
	}
}

func TestWorkerPermanentFailureEndsJob(t *testing.T) {
	worker, queue, sender := newTestWorker(t)
	sender.SetFailure(errors.New("resend 422 validation"), true)
	job := invitationJob()
	queue.jobs[job.ID] = job

	worker.ProcessNow(context.Background())

	if job.Status != entity.EmailStatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if job.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", job.Attempts)
	}
	if job.LastError == "" {
		t.Error("expected last_error recorded")
	}
}

func TestWorkerExhaustsAttemptBudget(t *testing.T) {
	worker, queue, sender := newTestWorker(t)
	sender.SetFailure(errors.New("resend 500"), false)
	job := invitationJob()
	queue.jobs[job.ID] = job

	for i := 0; i < job.MaxAttempts; i++ {
		job.ScheduledAt = time.Now().UTC().Add(-time.Second)
		worker.ProcessNow(context.Background())
	}

	if job.Status != entity.EmailStatusFailed {
		t.Fatalf("status = %s, want failed after %d attempts", job.Status, job.MaxAttempts)
	}
	if job.Attempts != job.MaxAttempts {
		t.Errorf("attempts = %d, want %d", job.Attempts, job.MaxAttempts)
	}
}

func TestWorkerFailsUnknownTemplateForGood(t *testing.T) {
	worker, queue, sender := newTestWorker(t)
	job := entity.NewEmailJob("password_reset", "lan@example.com", "Lan", "Reset", nil)
	queue.jobs[job.ID] = job

	worker.ProcessNow(context.Background())

	if len(sender.SentEmails) != 0 {
		t.Fatalf("sent %d emails, want 0", len(sender.SentEmails))
	}
	if job.Status != entity.EmailStatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
}

func TestMockSenderResetClearsState(t *testing.T) {
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("boom"), true)
	sender.Reset()

	if sender.ShouldFail {
		t.Error("expected failure cleared after Reset")
	}
	if len(sender.SentEmails) != 0 {
		t.Errorf("recorded sends = %d, want 0", len(sender.SentEmails))
	}
}

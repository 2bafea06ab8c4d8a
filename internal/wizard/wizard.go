// Package wizard drives the multi-step job application form: personal details, documents, review, success.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Step of the wizard
type Step string

// Steps in order
const (
	StepPersonal  Step = "personal"
	StepDocuments Step = "documents"
	StepReview    Step = "review"
	StepSuccess   Step = "success"
)

// Event moves the wizard between steps
type Event string

// Events
const (
	EventNext Event = "next"
	EventBack Event = "back"
)

var (
	// ErrInvalidTransition is returned for a move the step graph does not allow
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrAlreadyApplied is returned on review when the user already applied to the job
	ErrAlreadyApplied = errors.New("you have already applied to this job")
	// ErrSubmitInProgress is returned when Submit is called while a submission is running
	ErrSubmitInProgress = errors.New("application is already being submitted")
)

// Transition returns the step following ev, success has no way out
func Transition(step Step, ev Event) (Step, error) {
	switch {
	case step == StepPersonal && ev == EventNext:
		return StepDocuments, nil
	case step == StepDocuments && ev == EventNext:
		return StepReview, nil
	case step == StepDocuments && ev == EventBack:
		return StepPersonal, nil
	case step == StepReview && ev == EventNext:
		return StepSuccess, nil
	case step == StepReview && ev == EventBack:
		return StepDocuments, nil
	default:
		return step, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, step)
	}
}

// Applier checks and submits applications, implemented by service.ApplicationService
type Applier interface {
	HasApplied(ctx context.Context, jobID uint) (bool, error)
	Submit(ctx context.Context, in model.ApplicationInput) (*model.Application, error)
}

// Uploader stores documents, implemented by service.DocumentService
type Uploader interface {
	Upload(ctx context.Context, docType model.DocumentType, filename string, file io.Reader) (*model.Document, error)
}

// Wizard is the application form of one job
type Wizard struct {
	jobID   uint
	applier Applier

	mu         sync.Mutex
	step       Step
	personal   PersonalInfo
	documents  DocumentsInfo
	resume     *model.Document
	submitting bool
	lastErr    error
	result     *model.Application
}

// New starts a wizard for jobID, user prefills the personal step and may be nil
func New(jobID uint, applier Applier, user *model.User) *Wizard {
	w := &Wizard{jobID: jobID, applier: applier, step: StepPersonal}
	if user != nil {
		w.personal = PersonalInfo{
			FullName: user.FullName(),
			Email:    user.Email,
			Phone:    user.Profile.Phone,
		}
	}
	return w
}

// JobID the wizard applies to
func (w *Wizard) JobID() uint {
	return w.jobID
}

// Step returns the current step
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Personal returns the personal step values
func (w *Wizard) Personal() PersonalInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.personal
}

// Documents returns the documents step values
func (w *Wizard) Documents() DocumentsInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.documents
}

// Resume returns the attached resume, nil when none
func (w *Wizard) Resume() *model.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resume
}

// LastError is the error of the latest failed submit
func (w *Wizard) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Result is the created application once the wizard reached success
func (w *Wizard) Result() *model.Application {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// SetPersonal replaces the personal step values
func (w *Wizard) SetPersonal(p PersonalInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.personal = p
}

// SetCoverLetter replaces the cover letter
func (w *Wizard) SetCoverLetter(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.documents.CoverLetter = text
}

// AddDocument attaches an extra uploaded document to the application
func (w *Wizard) AddDocument(id uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.documents.ExtraDocumentIDs {
		if existing == id {
			return
		}
	}
	w.documents.ExtraDocumentIDs = append(w.documents.ExtraDocumentIDs, id)
}

// SelectResume uses an already uploaded resume
func (w *Wizard) SelectResume(doc model.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resume = &doc
	w.documents.ResumeID = doc.ID
}

// AttachResume uploads file as a resume and selects it
func (w *Wizard) AttachResume(ctx context.Context, uploader Uploader, filename string, file io.Reader) (*model.Document, error) {
	doc, err := uploader.Upload(ctx, model.DocumentResume, filename, file)
	if err != nil {
		return nil, err
	}
	w.SelectResume(*doc)
	return doc, nil
}

// Next validates the current step and moves forward. On review it submits the application.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	step := w.step
	var verr *ValidationError
	switch step {
	case StepPersonal:
		verr = newValidationError(StepPersonal, ValidatePersonal(w.personal))
	case StepDocuments:
		verr = newValidationError(StepDocuments, ValidateDocuments(w.documents))
	case StepReview:
		w.mu.Unlock()
		_, err := w.Submit(ctx)
		return err
	}
	if verr != nil {
		w.mu.Unlock()
		return verr
	}

	next, err := Transition(step, EventNext)
	if err == nil {
		w.step = next
	}
	w.mu.Unlock()
	return err
}

// Back moves to the previous step
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitInProgress
	}
	prev, err := Transition(w.step, EventBack)
	if err != nil {
		return err
	}
	w.step = prev
	return nil
}

// Submit revalidates every step, checks for a previous application and posts this one.
// On failure the wizard stays on review and the error is kept in LastError.
func (w *Wizard) Submit(ctx context.Context) (*model.Application, error) {
	w.mu.Lock()
	if w.step != StepReview {
		step := w.step
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: submit on %s", ErrInvalidTransition, step)
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	personal, documents := w.personal, w.documents
	w.submitting = true
	w.mu.Unlock()

	app, err := w.submit(ctx, personal, documents)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	w.lastErr = err
	if err != nil {
		return nil, err
	}
	w.result = app
	w.step = StepSuccess
	return app, nil
}

func (w *Wizard) submit(ctx context.Context, personal PersonalInfo, documents DocumentsInfo) (*model.Application, error) {
	if verr := newValidationError(StepPersonal, ValidatePersonal(personal)); verr != nil {
		return nil, verr
	}
	if verr := newValidationError(StepDocuments, ValidateDocuments(documents)); verr != nil {
		return nil, verr
	}

	applied, err := w.applier.HasApplied(ctx, w.jobID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, ErrAlreadyApplied
	}

	return w.applier.Submit(ctx, documents.input(w.jobID))
}

package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// ErrJobNotLoaded is returned when acting on a job missing from the current list
var ErrJobNotLoaded = errors.New("job is not in the current list")

// JobsState is the job list with its filter and cursors
type JobsState struct {
	Jobs     []model.Job
	Count    int64
	Next     *string
	Previous *string
	Page     int
	Filter   model.JobFilter
	Loading  bool
	Error    string
	// Seq is the sequence number of the latest issued fetch
	Seq uint64
}

// HasMore reports whether LoadMore can fetch another page
func (s JobsState) HasMore() bool {
	return s.Next != nil && *s.Next != ""
}

// JobsAction is one of FetchStarted, FetchSucceeded, FetchFailed, BookmarkSet
type JobsAction interface {
	jobsAction()
}

// FetchStarted is dispatched when fetch Seq is issued
type FetchStarted struct {
	Seq    uint64
	Filter model.JobFilter
}

// FetchSucceeded carries the page answering fetch Seq
type FetchSucceeded struct {
	Seq    uint64
	Page   int
	Result model.Paginated[model.Job]
	Append bool
}

// FetchFailed carries the error of fetch Seq
type FetchFailed struct {
	Seq     uint64
	Message string
}

// BookmarkSet flips the bookmark flag of a loaded job
type BookmarkSet struct {
	JobID      uint
	Bookmarked bool
}

func (FetchStarted) jobsAction()   {}
func (FetchSucceeded) jobsAction() {}
func (FetchFailed) jobsAction()    {}
func (BookmarkSet) jobsAction()    {}

// ReduceJobs returns the state following action. Results of a fetch older than the latest issued one are dropped.
func ReduceJobs(s JobsState, action JobsAction) JobsState {
	switch a := action.(type) {
	case FetchStarted:
		if a.Seq < s.Seq {
			return s
		}
		s.Seq = a.Seq
		s.Filter = a.Filter
		s.Loading = true
		s.Error = ""
	case FetchSucceeded:
		if a.Seq < s.Seq {
			return s
		}
		if a.Append {
			jobs := make([]model.Job, 0, len(s.Jobs)+len(a.Result.Results))
			jobs = append(jobs, s.Jobs...)
			s.Jobs = append(jobs, a.Result.Results...)
		} else {
			s.Jobs = a.Result.Results
		}
		s.Count = a.Result.Count
		s.Next = a.Result.Next
		s.Previous = a.Result.Previous
		s.Page = a.Page
		s.Loading = false
		s.Error = ""
	case FetchFailed:
		if a.Seq < s.Seq {
			return s
		}
		s.Loading = false
		s.Error = a.Message
	case BookmarkSet:
		jobs := make([]model.Job, len(s.Jobs))
		copy(jobs, s.Jobs)
		for i := range jobs {
			if jobs[i].ID == a.JobID {
				jobs[i].IsBookmarked = a.Bookmarked
			}
		}
		s.Jobs = jobs
	}
	return s
}

// JobLister lists jobs, implemented by service.JobService
type JobLister interface {
	List(ctx context.Context, filter model.JobFilter) (*model.Paginated[model.Job], error)
}

// Bookmarker saves or un-saves a job, implemented by service.BookmarkService
type Bookmarker interface {
	Set(ctx context.Context, jobID uint, bookmarked bool) error
}

// SearchRecorder remembers search text, implemented by service.SearchService
type SearchRecorder interface {
	Record(query string)
}

// JobsStore is the job listing container
type JobsStore struct {
	jobs      JobLister
	bookmarks Bookmarker
	searches  SearchRecorder

	mu    sync.RWMutex
	state JobsState
	subs  subscribers[JobsState]
}

// NewJobs creates an empty job list, searches may be nil
func NewJobs(jobs JobLister, bookmarks Bookmarker, searches SearchRecorder) *JobsStore {
	return &JobsStore{jobs: jobs, bookmarks: bookmarks, searches: searches}
}

// State returns a snapshot of the list
func (s *JobsStore) State() JobsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe calls fn after every transition, the returned func unsubscribes
func (s *JobsStore) Subscribe(fn func(JobsState)) func() {
	return s.subs.add(fn)
}

func (s *JobsStore) dispatch(action JobsAction) {
	s.mu.Lock()
	s.state = ReduceJobs(s.state, action)
	next := s.state
	s.mu.Unlock()

	s.subs.notify(next)
}

// SetFilter replaces the filter and fetches page 1
func (s *JobsStore) SetFilter(ctx context.Context, filter model.JobFilter) error {
	filter = filter.Clone()
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = 0
	if filter.Search != "" && s.searches != nil {
		s.searches.Record(filter.Search)
	}
	return s.fetch(ctx, filter, 1, false)
}

// UpdateFilter edits a copy of the current filter with fn and fetches page 1
func (s *JobsStore) UpdateFilter(ctx context.Context, fn func(f *model.JobFilter)) error {
	filter := s.State().Filter.Clone()
	fn(&filter)
	return s.SetFilter(ctx, filter)
}

// ResetFilters clears every filter but the page size and fetches page 1
func (s *JobsStore) ResetFilters(ctx context.Context) error {
	return s.SetFilter(ctx, model.JobFilter{PageSize: s.State().Filter.PageSize})
}

// Fetch loads page with the current filter, appending to the list when appendMode is set
func (s *JobsStore) Fetch(ctx context.Context, page int, appendMode bool) error {
	return s.fetch(ctx, s.State().Filter, page, appendMode)
}

// LoadMore appends the next page, it does nothing on the last page
func (s *JobsStore) LoadMore(ctx context.Context) error {
	st := s.State()
	if !st.HasMore() {
		return nil
	}
	return s.fetch(ctx, st.Filter, st.Page+1, true)
}

// Refresh re-fetches the current page
func (s *JobsStore) Refresh(ctx context.Context) error {
	st := s.State()
	page := st.Page
	if page < 1 {
		page = 1
	}
	return s.fetch(ctx, st.Filter, page, false)
}

func (s *JobsStore) fetch(ctx context.Context, filter model.JobFilter, page int, appendMode bool) error {
	if page < 1 {
		page = 1
	}

	// issuing the sequence number and recording it happen under one lock
	s.mu.Lock()
	seq := s.state.Seq + 1
	s.state = ReduceJobs(s.state, FetchStarted{Seq: seq, Filter: filter})
	started := s.state
	s.mu.Unlock()
	s.subs.notify(started)

	query := filter.Clone()
	query.Page = page
	result, err := s.jobs.List(ctx, query)
	if err != nil {
		s.dispatch(FetchFailed{Seq: seq, Message: errorMessage(err)})
		return err
	}

	s.dispatch(FetchSucceeded{Seq: seq, Page: page, Result: *result, Append: appendMode})
	return nil
}

// ToggleBookmark flips the bookmark of a loaded job right away and rolls back if the server call fails
func (s *JobsStore) ToggleBookmark(ctx context.Context, jobID uint) error {
	current, ok := s.bookmarked(jobID)
	if !ok {
		return ErrJobNotLoaded
	}

	s.dispatch(BookmarkSet{JobID: jobID, Bookmarked: !current})
	if err := s.bookmarks.Set(ctx, jobID, !current); err != nil {
		s.dispatch(BookmarkSet{JobID: jobID, Bookmarked: current})
		return err
	}
	return nil
}

func (s *JobsStore) bookmarked(jobID uint) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.state.Jobs {
		if job.ID == jobID {
			return job.IsBookmarked, true
		}
	}
	return false, false
}

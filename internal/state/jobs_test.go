package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

func jobsPage(next *string, ids ...uint) model.Paginated[model.Job] {
	page := model.Paginated[model.Job]{Count: 4, Next: next}
	for _, id := range ids {
		page.Results = append(page.Results, model.Job{ID: id})
	}
	return page
}

func jobIDs(jobs []model.Job) []uint {
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}

func TestJobs_SetFilterFetchesOnce(t *testing.T) {
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{1: jobsPage(nil, 1, 2)}}
	recorder := &fakeRecorder{}
	jobs := NewJobs(lister, &fakeBookmarker{}, recorder)

	filter := model.JobFilter{
		Search:           " golang ",
		ExperienceLevels: []model.ExperienceLevel{model.ExperienceSenior},
		Remote:           model.Ptr(true),
		PageSize:         2,
	}
	require.NoError(t, jobs.SetFilter(context.Background(), filter))

	require.Equal(t, 1, lister.callCount())
	params := lister.calls[0].Values()
	assert.Equal(t, "golang", params.Get("search"))
	assert.Equal(t, "senior", params.Get("experience_level"))
	assert.Equal(t, "true", params.Get("is_remote"))
	assert.Equal(t, "1", params.Get("page"))
	assert.Equal(t, "2", params.Get("page_size"))

	st := jobs.State()
	assert.Equal(t, []uint{1, 2}, jobIDs(st.Jobs))
	assert.Equal(t, 1, st.Page)
	assert.False(t, st.Loading)
	assert.Equal(t, []string{"golang"}, recorder.queries)
}

func TestJobs_LoadMoreAppends(t *testing.T) {
	next := "http://api/jobs/?page=2"
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{
		1: jobsPage(&next, 1, 2),
		2: jobsPage(nil, 2, 3),
	}}
	jobs := NewJobs(lister, &fakeBookmarker{}, nil)
	ctx := context.Background()

	require.NoError(t, jobs.SetFilter(ctx, model.JobFilter{}))
	require.True(t, jobs.State().HasMore())
	require.NoError(t, jobs.LoadMore(ctx))

	st := jobs.State()
	assert.Equal(t, []uint{1, 2, 2, 3}, jobIDs(st.Jobs))
	assert.Equal(t, 2, st.Page)
	assert.False(t, st.HasMore())

	require.NoError(t, jobs.LoadMore(ctx))
	assert.Equal(t, 2, lister.callCount())
}

func TestJobs_StaleResponseDropped(t *testing.T) {
	gate := make(chan struct{})
	lister := &fakeLister{
		gates: map[string]chan struct{}{"slow": gate},
		results: map[string]model.Paginated[model.Job]{
			"slow": jobsPage(nil, 10),
			"fast": jobsPage(nil, 20),
		},
	}
	jobs := NewJobs(lister, &fakeBookmarker{}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = jobs.SetFilter(ctx, model.JobFilter{Search: "slow"})
	}()
	assert.Eventually(t, func() bool { return lister.callCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, jobs.SetFilter(ctx, model.JobFilter{Search: "fast"}))
	close(gate)
	wg.Wait()

	st := jobs.State()
	assert.Equal(t, []uint{20}, jobIDs(st.Jobs))
	assert.Equal(t, "fast", st.Filter.Search)
	assert.Equal(t, uint64(2), st.Seq)
}

func TestReduceJobs_StaleFailureDropped(t *testing.T) {
	st := JobsState{Seq: 3, Jobs: []model.Job{{ID: 1}}}

	assert.Equal(t, st, ReduceJobs(st, FetchFailed{Seq: 2, Message: "boom"}))
	assert.Equal(t, st, ReduceJobs(st, FetchSucceeded{Seq: 1, Page: 1}))
	assert.Equal(t, st, ReduceJobs(st, FetchStarted{Seq: 2}))

	failed := ReduceJobs(st, FetchFailed{Seq: 3, Message: "boom"})
	assert.Equal(t, "boom", failed.Error)
	assert.Equal(t, []uint{1}, jobIDs(failed.Jobs))
}

func TestJobs_FetchErrorKeepsJobs(t *testing.T) {
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{1: jobsPage(nil, 1)}}
	jobs := NewJobs(lister, &fakeBookmarker{}, nil)
	ctx := context.Background()
	require.NoError(t, jobs.Refresh(ctx))

	lister.err = errors.New("offline")
	assert.Error(t, jobs.Refresh(ctx))

	st := jobs.State()
	assert.Equal(t, "offline", st.Error)
	assert.Equal(t, []uint{1}, jobIDs(st.Jobs))
	assert.False(t, st.Loading)
}

func TestJobs_UpdateAndResetFilters(t *testing.T) {
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{}}
	jobs := NewJobs(lister, &fakeBookmarker{}, nil)
	ctx := context.Background()

	require.NoError(t, jobs.SetFilter(ctx, model.JobFilter{Locations: []string{"Nairobi"}, PageSize: 5}))
	require.NoError(t, jobs.UpdateFilter(ctx, func(f *model.JobFilter) { f.SalaryMin = model.Ptr(1000) }))

	st := jobs.State()
	assert.Equal(t, []string{"Nairobi"}, st.Filter.Locations)
	assert.Equal(t, 1000, *st.Filter.SalaryMin)

	require.NoError(t, jobs.ResetFilters(ctx))
	assert.Equal(t, model.JobFilter{PageSize: 5}, jobs.State().Filter)
	assert.Equal(t, 3, lister.callCount())
}

func TestJobs_ToggleBookmarkOptimistic(t *testing.T) {
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{1: jobsPage(nil, 1, 2)}}
	bookmarker := &fakeBookmarker{}
	jobs := NewJobs(lister, bookmarker, nil)
	ctx := context.Background()
	require.NoError(t, jobs.Refresh(ctx))

	var duringCall bool
	bookmarker.during = func() { duringCall = jobs.State().Jobs[1].IsBookmarked }

	require.NoError(t, jobs.ToggleBookmark(ctx, 2))
	assert.True(t, duringCall)
	assert.True(t, jobs.State().Jobs[1].IsBookmarked)
	assert.Equal(t, []bool{true}, bookmarker.calls)
}

func TestJobs_ToggleBookmarkRollsBack(t *testing.T) {
	lister := &fakeLister{pages: map[int]model.Paginated[model.Job]{1: jobsPage(nil, 1)}}
	bookmarker := &fakeBookmarker{err: errors.New("offline")}
	jobs := NewJobs(lister, bookmarker, nil)
	ctx := context.Background()
	require.NoError(t, jobs.Refresh(ctx))

	assert.Error(t, jobs.ToggleBookmark(ctx, 1))
	assert.False(t, jobs.State().Jobs[0].IsBookmarked)

	assert.ErrorIs(t, jobs.ToggleBookmark(ctx, 99), ErrJobNotLoaded)
}

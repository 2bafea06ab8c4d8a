package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// BulkAction applied to every selected row
type BulkAction string

// Bulk actions
const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
)

// MaxConcurrentRequests bounds the requests a bulk action keeps in flight
const MaxConcurrentRequests = 4

// ErrUnknownAction is returned for an action outside the bulk actions
var ErrUnknownAction = errors.New("unknown bulk action")

// ParseBulkAction validates s
func ParseBulkAction(s string) (BulkAction, error) {
	switch action := BulkAction(s); action {
	case BulkActivate, BulkDeactivate, BulkDelete:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, s)
	}
}

// ItemError is the failure of one id
type ItemError struct {
	ID  uint
	Err error
}

// BulkResult tallies a bulk action
type BulkResult struct {
	Success int
	Failed  int
	Errors  []ItemError
}

// BulkJobs applies action to every job id. Partial failure is reported in the result, not as an error.
func (d *Dashboard) BulkJobs(ctx context.Context, action BulkAction, ids []uint) (BulkResult, error) {
	var op func(ctx context.Context, id uint) error
	switch action {
	case BulkActivate:
		op = func(ctx context.Context, id uint) error {
			_, err := d.backend.Jobs.Activate(ctx, id)
			return err
		}
	case BulkDeactivate:
		op = func(ctx context.Context, id uint) error {
			_, err := d.backend.Jobs.Deactivate(ctx, id)
			return err
		}
	case BulkDelete:
		op = d.backend.Jobs.Delete
	default:
		return BulkResult{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return d.bulk(ctx, ids, op), nil
}

// BulkCompanies applies action to every company id. Partial failure is reported in the result, not as an error.
func (d *Dashboard) BulkCompanies(ctx context.Context, action BulkAction, ids []uint) (BulkResult, error) {
	var op func(ctx context.Context, id uint) error
	switch action {
	case BulkActivate:
		op = func(ctx context.Context, id uint) error {
			_, err := d.backend.Companies.Activate(ctx, id)
			return err
		}
	case BulkDeactivate:
		op = func(ctx context.Context, id uint) error {
			_, err := d.backend.Companies.Deactivate(ctx, id)
			return err
		}
	case BulkDelete:
		op = d.backend.Companies.Delete
	default:
		return BulkResult{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return d.bulk(ctx, ids, op), nil
}

// bulk runs op for every id with at most MaxConcurrentRequests in flight and waits for all of them
func (d *Dashboard) bulk(ctx context.Context, ids []uint, op func(ctx context.Context, id uint) error) BulkResult {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result BulkResult
		slots  = make(chan struct{}, MaxConcurrentRequests)
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			err := op(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, ItemError{ID: id, Err: err})
				return
			}
			result.Success++
		}(id)
	}
	wg.Wait()

	d.refreshQuietly(ctx)
	return result
}

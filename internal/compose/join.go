package compose

import (
	"context"
	"sync"
)

// Policy decides what a failing branch does to the join
type Policy int

const (
	// Required branches abort the join and cancel the others on failure
	Required Policy = iota
	// Optional branches fail softly; their result stays empty
	Optional
)

func (p Policy) String() string {
	if p == Optional {
		return "optional"
	}
	return "required"
}

// Branch is one independent outbound call of a join. Run writes its result
// into a variable owned by the caller, which is read only after Join returns.
type Branch struct {
	Name   string
	Policy Policy
	Run    func(ctx context.Context) error
}

// SoftFailure records an optional branch that failed
type SoftFailure struct {
	Branch string
	Err    error
}

// Join runs all branches concurrently and waits for every one of them.
// It returns the optional failures in branch order and the first required
// failure to occur, if any.
func Join(ctx context.Context, branches ...Branch) ([]SoftFailure, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	errs := make([]error, len(branches))

	for i, b := range branches {
		wg.Go(func() {
			err := b.Run(ctx)
			errs[i] = err
			if err != nil && b.Policy == Required {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		})
	}
	wg.Wait()

	var soft []SoftFailure
	for i, b := range branches {
		if errs[i] != nil && b.Policy == Optional {
			soft = append(soft, SoftFailure{Branch: b.Name, Err: errs[i]})
		}
	}

	return soft, firstErr
}

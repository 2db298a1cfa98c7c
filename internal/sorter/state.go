package sorter

import (
	"errors"
	"fmt"
	"slices"

	"fotosorter/internal/domain"
)

var (
	// ErrWrongPhase is returned when an operation does not apply to the current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrNotOffered is returned when Choose names a category outside the current offer.
	ErrNotOffered = errors.New("category was not offered for this image")
	// ErrNoImages is returned when a session is started with an empty queue.
	ErrNoImages = errors.New("no images to sort")
)

// State is the whole sorting session: the work queue, the processed list and
// the offer for the head of the queue. Reduce never mutates the State it is
// given.
type State struct {
	Phase      domain.Phase
	Categories []string
	Queue      []domain.ImageRecord
	Processed  []domain.ImageRecord
	Offer      *domain.Offer
}

// Action is a user decision on the head of the queue.
type Action interface {
	isAction()
}

// Choose assigns one of the two offered categories to the head record.
type Choose struct {
	Category string
}

// Skip rotates the head record to the tail, or resolves it once every
// category has been offered.
type Skip struct{}

func (Choose) isAction() {}
func (Skip) isAction()   {}

// NewState returns an empty state in the initializing phase.
func NewState() State {
	return State{Phase: domain.PhaseInitializing}
}

// AwaitCategories moves an initializing state to category entry.
func AwaitCategories(st State) (State, error) {
	return st.transition(domain.PhaseAwaitingCategories)
}

// Start fills the queue with images in random order and offers the first pair.
// The state may land directly in the finalizing phase when no image can be
// offered two categories.
func Start(st State, categories []string, images []domain.ImageRecord, rng Rand) (State, error) {
	if st.Phase != domain.PhaseAwaitingCategories {
		return st, fmt.Errorf("start: %w (%s)", ErrWrongPhase, st.Phase)
	}
	if len(Distinct(categories)) < MinCategories {
		return st, ErrTooFewCategories
	}
	if len(images) == 0 {
		return st, ErrNoImages
	}

	next, err := st.transition(domain.PhaseAwaitingDecision)
	if err != nil {
		return st, err
	}

	next.Categories = slices.Clone(categories)
	next.Queue = make([]domain.ImageRecord, len(images))
	for i, record := range images {
		record.Offered = nil
		record.Selection = ""
		next.Queue[i] = record
	}
	Shuffle(next.Queue, rng)
	next.Processed = make([]domain.ImageRecord, 0, len(images))

	return next.advance(rng), nil
}

// Reduce applies one action to the head of the queue and returns the next state.
func Reduce(st State, action Action, rng Rand) (State, error) {
	if st.Phase != domain.PhaseAwaitingDecision || len(st.Queue) == 0 {
		return st, fmt.Errorf("%w (%s)", ErrWrongPhase, st.Phase)
	}

	next := st.clone()
	head := next.Queue[0]

	switch a := action.(type) {
	case Choose:
		if next.Offer == nil || !next.Offer.Contains(a.Category) {
			return st, fmt.Errorf("%w: %q", ErrNotOffered, a.Category)
		}
		head.Selection = a.Category
		next.Processed = append(next.Processed, head)
		next.Queue = next.Queue[1:]

	case Skip:
		if len(head.Offered) >= len(Distinct(next.Categories)) {
			head.Selection = ""
			next.Processed = append(next.Processed, head)
			next.Queue = next.Queue[1:]
		} else {
			next.Queue = append(next.Queue[1:], head)
		}

	default:
		return st, fmt.Errorf("unsupported action %T", action)
	}

	next.Offer = nil
	return next.advance(rng), nil
}

// Complete marks a finalizing state as done, whether or not files were moved.
func Complete(st State) (State, error) {
	return st.transition(domain.PhaseDone)
}

// Head returns the record currently awaiting a decision.
func (st State) Head() (domain.ImageRecord, bool) {
	if st.Phase != domain.PhaseAwaitingDecision || len(st.Queue) == 0 {
		return domain.ImageRecord{}, false
	}
	return st.Queue[0], true
}

// Total returns the number of records in the session.
func (st State) Total() int {
	return len(st.Queue) + len(st.Processed)
}

// SkippedCount returns processed records that ended without a category.
func (st State) SkippedCount() int {
	n := 0
	for _, record := range st.Processed {
		if !record.Resolved() {
			n++
		}
	}
	return n
}

// Remaining returns the distinct categories not yet offered for record.
func Remaining(record domain.ImageRecord, categories []string) []string {
	var out []string
	for _, label := range Distinct(categories) {
		if !record.HasBeenOffered(label) {
			out = append(out, label)
		}
	}
	return out
}

// advance offers a pair for the head record, resolving records that have
// fewer than two categories left, until an offer is made or the queue drains.
func (st State) advance(rng Rand) State {
	for len(st.Queue) > 0 {
		head := st.Queue[0]
		remaining := Remaining(head, st.Categories)
		if len(remaining) < 2 {
			head.Selection = ""
			st.Processed = append(st.Processed, head)
			st.Queue = st.Queue[1:]
			continue
		}

		first, second := pickPair(remaining, rng)
		head.Offered = append(head.Offered, first, second)
		st.Queue[0] = head
		st.Offer = &domain.Offer{RecordID: head.ID, First: first, Second: second}
		return st
	}

	st.Offer = nil
	st.Phase = domain.PhaseFinalizing
	return st
}

// clone copies every slice the reducer may touch.
func (st State) clone() State {
	out := st
	out.Categories = slices.Clone(st.Categories)
	out.Queue = make([]domain.ImageRecord, len(st.Queue))
	for i, record := range st.Queue {
		record.Offered = slices.Clone(record.Offered)
		out.Queue[i] = record
	}
	out.Processed = slices.Clone(st.Processed)
	if st.Offer != nil {
		offer := *st.Offer
		out.Offer = &offer
	}
	return out
}

// transition validates and applies a phase change.
func (st State) transition(to domain.Phase) (State, error) {
	if !isValidTransition(st.Phase, to) {
		return st, fmt.Errorf("%w: %s -> %s", ErrWrongPhase, st.Phase, to)
	}
	st.Phase = to
	return st, nil
}

// isValidTransition enforces the allowed session phase edges.
func isValidTransition(from, to domain.Phase) bool {
	switch from {
	case domain.PhaseInitializing:
		return to == domain.PhaseAwaitingCategories
	case domain.PhaseAwaitingCategories:
		return to == domain.PhaseAwaitingDecision
	case domain.PhaseAwaitingDecision:
		return to == domain.PhaseFinalizing
	case domain.PhaseFinalizing:
		return to == domain.PhaseDone
	default:
		return false
	}
}

package llm

import (
	"context"
	"sync"
)

// FakeGenerator returns canned answers for offline runs and tests.
//
// Answers are served in order; once exhausted the last answer repeats.
// Respond, when set, takes precedence and is called with the input.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeGenerator struct {
	Answers []string
	Respond func(input string) (string, error)

	mu     sync.Mutex
	calls  int
	inputs []string
}

// NewFakeGenerator returns a fake that serves answers in order.
func NewFakeGenerator(answers ...string) *FakeGenerator {
	return &FakeGenerator{Answers: answers}
}

func (f *FakeGenerator) Name() string { return "fake" }

func (f *FakeGenerator) Generate(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkInput(input); err != nil {
		return "", err
	}

	f.mu.Lock()
	i := f.calls
	f.calls++
	f.inputs = append(f.inputs, input)
	respond := f.Respond
	f.mu.Unlock()

	if respond != nil {
		return respond(input)
	}
	if len(f.Answers) == 0 {
		return "", ErrNoContent
	}
	return f.Answers[min(i, len(f.Answers)-1)], nil
}

// Calls reports how many times Generate was invoked with valid input.
func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Inputs returns the inputs seen so far, in call order.
func (f *FakeGenerator) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...)
}

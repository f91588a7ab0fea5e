package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/avenhq/avenassist/internal/core/domain"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
)

// fakeHarvester records the locators it was called with.
type fakeHarvester struct {
	doc      *domain.FAQDocument
	err      error
	locators []string
}

func (f *fakeHarvester) Harvest(_ context.Context, locators []string) (*domain.FAQDocument, error) {
	f.locators = locators
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

// fakeIndexer returns a canned report and counts invocations.
type fakeIndexer struct {
	report *driving.IndexReport
	err    error
	opts   []driving.IndexOptions
}

func (f *fakeIndexer) Index(_ context.Context, opts driving.IndexOptions) (*driving.IndexReport, error) {
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

// fakeAsker returns a canned answer.
type fakeAsker struct {
	answer   *domain.Answer
	err      error
	question string
	opts     driving.AskOptions
}

func (f *fakeAsker) Ask(_ context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	f.question = question
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleReport() *driving.IndexReport {
	return &driving.IndexReport{
		RunID:     "run-1",
		Succeeded: []string{"chunk-0", "chunk-1"},
		Duration:  42 * time.Millisecond,
	}
}

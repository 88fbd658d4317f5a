package interpreter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"travel-search/models"
)

// fakeModel replays scripted responses in order.
type fakeModel struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeModel) Complete(_ context.Context, _, _, userPrompt string) (string, error) {
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, userPrompt)

	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	var resp string
	if idx < len(f.responses) {
		resp = f.responses[idx]
	}
	return resp, err
}

func newTestInterpreter(m ModelClient) *Interpreter {
	return New(m, time.Second, zerolog.Nop())
}

func testQuery() *models.RawQuery {
	q := &models.RawQuery{SearchQuery: "2-bedroom apartment in Barcelona, rating above 4.0, $100-$300/night"}
	if err := q.Validate(); err != nil {
		panic(err)
	}
	return q
}

func TestInterpretValidResponse(t *testing.T) {
	m := &fakeModel{responses: []string{
		`{"location":"Barcelona","bedrooms":2,"min_rating":4.0,"min_price":100,"max_price":300}`,
	}}

	filter, trace, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trace != nil {
		t.Errorf("expected no trace without debug mode, got %d entries", len(trace))
	}

	if filter.Location != "Barcelona" {
		t.Errorf("location: got %q", filter.Location)
	}
	if filter.Bedrooms == nil || *filter.Bedrooms != 2 {
		t.Errorf("bedrooms: got %v", filter.Bedrooms)
	}
	if filter.MinRating == nil || *filter.MinRating != 4.0 {
		t.Errorf("min_rating: got %v", filter.MinRating)
	}
	if filter.MinPrice == nil || *filter.MinPrice != 100 || filter.MaxPrice == nil || *filter.MaxPrice != 300 {
		t.Errorf("price range: got %v-%v", filter.MinPrice, filter.MaxPrice)
	}
	if m.calls != 1 {
		t.Errorf("expected 1 model call, got %d", m.calls)
	}
}

func TestInterpretRoundTripExactValues(t *testing.T) {
	// A response that already matches the schema must be reproduced
	// exactly — nothing invented, nothing defaulted.
	m := &fakeModel{responses: []string{
		`{"location":"Paris","min_price":50}`,
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.Location != "Paris" {
		t.Errorf("location: got %q", filter.Location)
	}
	if filter.MinPrice == nil || *filter.MinPrice != 50 {
		t.Errorf("min_price: got %v", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		t.Errorf("max_price must stay unconstrained, got %v", *filter.MaxPrice)
	}
	if filter.Bedrooms != nil || filter.MinRating != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestInterpretDropsUnknownFields(t *testing.T) {
	m := &fakeModel{responses: []string{
		`{"location":"Rome","pool":true,"vibe":"romantic"}`,
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Location != "Rome" {
		t.Errorf("location: got %q", filter.Location)
	}
}

func TestInterpretStripsMarkdownFences(t *testing.T) {
	m := &fakeModel{responses: []string{
		"```json\n{\"location\":\"Lisbon\"}\n```",
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Location != "Lisbon" {
		t.Errorf("location: got %q", filter.Location)
	}
}

func TestInterpretRepairsReversedPriceRange(t *testing.T) {
	m := &fakeModel{responses: []string{
		`{"location":"Berlin","min_price":300,"max_price":100}`,
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *filter.MinPrice != 100 || *filter.MaxPrice != 300 {
		t.Errorf("expected repaired range [100,300], got [%v,%v]", *filter.MinPrice, *filter.MaxPrice)
	}
}

func TestInterpretMissingLocationRetriesOnce(t *testing.T) {
	m := &fakeModel{responses: []string{
		`{"min_price":100}`,
		`{"location":"Madrid","min_price":100}`,
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Location != "Madrid" {
		t.Errorf("location: got %q", filter.Location)
	}
	if m.calls != 2 {
		t.Errorf("expected exactly 2 model calls, got %d", m.calls)
	}
}

func TestInterpretMalformedTwiceFails(t *testing.T) {
	m := &fakeModel{responses: []string{
		"not json at all",
		"{broken",
	}}

	_, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected InterpretationError")
	}

	var interpErr *models.InterpretationError
	if !errors.As(err, &interpErr) {
		t.Errorf("expected *models.InterpretationError, got %T", err)
	}
	if m.calls != 2 {
		t.Errorf("expected exactly 2 model calls, got %d", m.calls)
	}
}

func TestInterpretDebugRecordsTrace(t *testing.T) {
	m := &fakeModel{responses: []string{`{"location":"Oslo"}`}}

	q := testQuery()
	q.Debug = true

	_, trace, err := newTestInterpreter(m).Interpret(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(trace))
	}
	if trace[0].Stage != "interpret" {
		t.Errorf("stage: got %q", trace[0].Stage)
	}
	if trace[0].Output != `{"location":"Oslo"}` {
		t.Errorf("trace output must be the raw response, got %q", trace[0].Output)
	}
}

func TestInterpretNormalizesResidualTerms(t *testing.T) {
	m := &fakeModel{responses: []string{
		`{"location":"Vienna","residual_terms":["  Sea View ","", "balcony"]}`,
	}}

	filter, _, err := newTestInterpreter(m).Interpret(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"sea view", "balcony"}
	if len(filter.ResidualTerms) != len(want) {
		t.Fatalf("residual terms: got %v, want %v", filter.ResidualTerms, want)
	}
	for i, term := range want {
		if filter.ResidualTerms[i] != term {
			t.Errorf("residual term %d: got %q, want %q", i, filter.ResidualTerms[i], term)
		}
	}
}

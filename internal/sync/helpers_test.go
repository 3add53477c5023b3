package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"benchwatch/internal/courtlistener"
	"benchwatch/internal/events"
	judgestore "benchwatch/internal/judges/store"
)

const testLeaseTTL = time.Minute

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// record builds an upstream judge record with one active position so
// enhancement has something to derive.
func record(id, name string) courtlistener.JudgeRecord {
	return courtlistener.JudgeRecord{
		ID:           id,
		Name:         name,
		Jurisdiction: "F",
		DateModified: time.Now(),
		Positions: []courtlistener.PositionRecord{
			{
				CourtID:      "ca9",
				CourtName:    "Ninth Circuit",
				PositionType: "jud",
				Appointer:    "President",
				HowSelected:  "a_pres",
				DateStarted:  "2001-05-14",
			},
		},
		Raw: json.RawMessage(fmt.Sprintf(`{"id":%q,"name_full":%q}`, id, name)),
	}
}

// bareRecord builds a record with nothing to enhance.
func bareRecord(id, name string) courtlistener.JudgeRecord {
	return courtlistener.JudgeRecord{
		ID:   id,
		Name: name,
		Raw:  json.RawMessage(fmt.Sprintf(`{"id":%q}`, id)),
	}
}

// capturingPublisher records published events for assertions. The engine is
// sequential, so no locking is needed.
type capturingPublisher struct {
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) actions() []string {
	actions := make([]string, 0, len(p.events))
	for _, e := range p.events {
		actions = append(actions, e.Action)
	}
	return actions
}

func newTestReconciler(upstream courtlistener.Client, store *judgestore.Memory, budget *Budget) *Reconciler {
	return &Reconciler{
		upstream: upstream,
		store:    store,
		budget:   budget,
		events:   events.Noop{},
		logger:   testLogger(),
		leaseTTL: time.Minute,
	}
}

func newTestBatch(reconciler *Reconciler, budget *Budget) *BatchProcessor {
	return &BatchProcessor{
		reconciler: reconciler,
		budget:     budget,
		chunkDelay: 0,
		logger:     testLogger(),
	}
}

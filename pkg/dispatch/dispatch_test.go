package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/macropower/i3-event-handler/pkg/config"
	"github.com/macropower/i3-event-handler/pkg/dispatch"
	"github.com/macropower/i3-event-handler/pkg/label"
	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/wm"
	"github.com/macropower/i3-event-handler/pkg/wm/wmtest"
)

func mustLoad(t *testing.T, doc string) *rule.RuleSet {
	t.Helper()

	rs, err := config.NewLoaderFromBytes([]byte(doc)).Load()
	require.NoError(t, err)

	return rs
}

func newWindow(id wm.WindowID, class, instance, title string) wm.Event {
	return wm.Event{
		Change: wm.ChangeNew,
		Window: wm.Window{ID: id, Class: class, Instance: instance, Title: title},
	}
}

func TestHandle_Browser(t *testing.T) {
	t.Parallel()

	rs := mustLoad(t, `[{"_matches":[["class","^Firefox$"]], "mark":"browser"}]`)
	c := wmtest.NewClient()
	d := dispatch.New(rs, c)

	res := d.Handle(t.Context(), newWindow(1, "Firefox", "Navigator", "Mozilla Firefox"))
	require.True(t, res.Matched())
	assert.Equal(t, 0, res.RuleIndex)
	assert.Equal(t, label.OutcomeApplied, res.Label)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.EventID)

	res = d.Handle(t.Context(), newWindow(2, "Firefox", "Navigator", "Mozilla Firefox"))
	require.True(t, res.Matched())
	assert.Equal(t, label.OutcomeSkipped, res.Label)

	assert.Equal(t, []wmtest.SentCommand{
		{Window: 1, Command: `mark --replace "browser"`},
	}, c.Commands())
	assert.Equal(t, map[string]wm.WindowID{"browser": 1}, c.Labels())
}

func TestHandle_ActionsWithoutLabel(t *testing.T) {
	t.Parallel()

	rs := mustLoad(t, `[{"_matches":[["title","Terminal"]], "on_new":["floating enable"]}]`)
	c := wmtest.NewClient()

	res := dispatch.New(rs, c).Handle(t.Context(), newWindow(3, "", "", "My Terminal Window"))
	require.False(t, res.Matched(), "title must match from the start")
	assert.Empty(t, c.Commands())

	res = dispatch.New(rs, c).Handle(t.Context(), newWindow(4, "", "", "Terminal - zsh"))
	require.True(t, res.Matched())
	assert.Equal(t, label.OutcomeNone, res.Label)
	assert.Equal(t, []string{"floating enable"}, res.Sent)
	assert.Equal(t, []wmtest.SentCommand{
		{Window: 4, Command: "floating enable"},
	}, c.Commands())
}

func TestHandle_UnanchoredTitle(t *testing.T) {
	t.Parallel()

	rs := mustLoad(t, `[{"_matches":[["title",".*Terminal"]], "on_new":["floating enable"]}]`)
	c := wmtest.NewClient()

	res := dispatch.New(rs, c).Handle(t.Context(), newWindow(3, "", "", "My Terminal Window"))
	require.True(t, res.Matched())
	assert.Equal(t, []wmtest.SentCommand{
		{Window: 3, Command: "floating enable"},
	}, c.Commands())
}

func TestHandle_FirstMatchWins(t *testing.T) {
	t.Parallel()

	rs := mustLoad(t, `[
		{"_matches":[["class","A"]], "on_new":["first"]},
		{"_matches":[["title","x"]], "on_new":["second"], "mark":"second"}
	]`)
	c := wmtest.NewClient()

	res := dispatch.New(rs, c).Handle(t.Context(), newWindow(5, "A", "", "x"))
	assert.Equal(t, 0, res.RuleIndex)
	assert.Equal(t, []wmtest.SentCommand{
		{Window: 5, Command: "first"},
	}, c.Commands())
}

func TestHandle(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tcs := map[string]struct {
		setup        func(c *wmtest.Client)
		event        wm.Event
		doc          string
		wantErrs     []error
		wantCommands []string
		wantIndex    int
		wantLabel    label.Outcome
	}{
		"no match": {
			doc:       `[{"_matches":[["class","^Firefox$"]], "on_new":["x"]}]`,
			event:     newWindow(1, "Chromium", "", ""),
			wantIndex: -1,
		},
		"empty rule set": {
			doc:       `[]`,
			event:     newWindow(1, "Firefox", "", ""),
			wantIndex: -1,
		},
		"missing instance never matches": {
			doc:       `[{"_matches":[["instance","."]], "on_new":["x"]}]`,
			event:     newWindow(1, "Firefox", "", "title"),
			wantIndex: -1,
		},
		"other events are ignored": {
			doc: `[{"_matches":[["class","Firefox"]], "on_new":["x"]}]`,
			event: wm.Event{
				Change: "focus",
				Window: wm.Window{ID: 1, Class: "Firefox"},
			},
			wantIndex: -1,
		},
		"actions in declared order": {
			doc:          `[{"_matches":[["class","A"]], "on_new":["one","two","three"]}]`,
			event:        newWindow(1, "A", "", ""),
			wantIndex:    0,
			wantCommands: []string{"one", "two", "three"},
		},
		"label and actions": {
			doc:          `[{"_matches":[["class","A"]], "mark":"a", "on_new":["one"]}]`,
			event:        newWindow(1, "A", "", ""),
			wantIndex:    0,
			wantLabel:    label.OutcomeApplied,
			wantCommands: []string{`mark --replace "a"`, "one"},
		},
		"held label still sends actions": {
			doc:   `[{"_matches":[["class","A"]], "mark":"a", "on_new":["one"]}]`,
			event: newWindow(1, "A", "", ""),
			setup: func(c *wmtest.Client) {
				c.SetLabel("a", 9)
			},
			wantIndex:    0,
			wantLabel:    label.OutcomeSkipped,
			wantCommands: []string{"one"},
		},
		"failed action does not stop later actions": {
			doc:   `[{"_matches":[["class","A"]], "on_new":["one","two","three"]}]`,
			event: newWindow(1, "A", "", ""),
			setup: func(c *wmtest.Client) {
				c.FailCommand("two", errBoom)
			},
			wantIndex:    0,
			wantCommands: []string{"one", "three"},
			wantErrs:     []error{wm.ErrCommand},
		},
		"failed label query still sends actions": {
			doc:   `[{"_matches":[["class","A"]], "mark":"a", "on_new":["one"]}]`,
			event: newWindow(1, "A", "", ""),
			setup: func(c *wmtest.Client) {
				c.FailQuery(errBoom)
			},
			wantIndex:    0,
			wantLabel:    label.OutcomeFailed,
			wantCommands: []string{"one"},
			wantErrs:     []error{wm.ErrQuery},
		},
		"every failure is recorded": {
			doc:   `[{"_matches":[["class","A"]], "mark":"a", "on_new":["one","two"]}]`,
			event: newWindow(1, "A", "", ""),
			setup: func(c *wmtest.Client) {
				c.FailCommand(wm.MarkCommand("a"), errBoom)
				c.FailCommand("one", errBoom)
				c.FailCommand("two", errBoom)
			},
			wantIndex: 0,
			wantLabel: label.OutcomeFailed,
			wantErrs:  []error{wm.ErrCommand, wm.ErrCommand, wm.ErrCommand},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := wmtest.NewClient()
			if tc.setup != nil {
				tc.setup(c)
			}

			res := dispatch.New(mustLoad(t, tc.doc), c).Handle(t.Context(), tc.event)

			assert.Equal(t, tc.wantIndex, res.RuleIndex)
			assert.Equal(t, tc.wantIndex >= 0, res.Matched())
			assert.Equal(t, tc.wantLabel, res.Label)

			var got []string
			for _, sc := range c.Commands() {
				assert.Equal(t, tc.event.Window.ID, sc.Window)
				got = append(got, sc.Command)
			}

			assert.Equal(t, tc.wantCommands, got)

			require.Len(t, res.Errors, len(tc.wantErrs))
			for i, err := range tc.wantErrs {
				require.ErrorIs(t, res.Errors[i], err)
			}
		})
	}
}

func TestHandle_Span(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	c := wmtest.NewClient()
	c.FailCommand("two", errors.New("boom"))

	rs := mustLoad(t, `[{"_matches":[["class","A"]], "on_new":["one","two"]}]`)
	d := dispatch.New(rs, c, dispatch.WithTracerProvider(tp))

	res := d.Handle(t.Context(), newWindow(11, "A", "a", "t"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "handle-window", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}

	assert.Equal(t, int64(11), attrs["window.id"])
	assert.Equal(t, "A", attrs["window.class"])
	assert.Equal(t, res.EventID, attrs["event.id"])
	assert.Equal(t, int64(0), attrs["rule.index"])
}

func TestRun(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	c := wmtest.NewClient()
	d := dispatch.New(mustLoad(t, `[{"_matches":[["class","A"]], "on_new":["old"]}]`), c)
	reloads := make(chan *rule.RuleSet)

	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, reloads)
	}()

	waitForCommands := func(n int) {
		t.Helper()

		require.Eventually(t, func() bool {
			return len(c.Commands()) == n
		}, 5*time.Second, 10*time.Millisecond)
	}

	require.NoError(t, c.Send(ctx, newWindow(1, "A", "", "")))
	waitForCommands(1)

	reloads <- mustLoad(t, `[{"_matches":[["class","A"]], "on_new":["new"]}]`)

	require.NoError(t, c.Send(ctx, newWindow(2, "A", "", "")))
	waitForCommands(2)

	assert.Equal(t, []wmtest.SentCommand{
		{Window: 1, Command: "old"},
		{Window: 2, Command: "new"},
	}, c.Commands())
	assert.Equal(t, 1, d.Rules().Len())

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Run did not return after cancellation")
	}
}

func TestRun_SubscriptionError(t *testing.T) {
	t.Parallel()

	errLost := errors.New("connection lost")

	tcs := map[string]struct {
		err     error
		wantErr error
	}{
		"transport error": {
			err:     errLost,
			wantErr: errLost,
		},
		"closed without error": {
			wantErr: dispatch.ErrSubscriptionClosed,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := wmtest.NewClient()
			d := dispatch.New(rule.NewRuleSet(), c)

			done := make(chan error, 1)
			go func() {
				done <- d.Run(t.Context(), nil)
			}()

			require.NoError(t, c.Send(t.Context(), newWindow(1, "A", "", "")))
			c.End(tc.err)

			select {
			case err := <-done:
				require.ErrorIs(t, err, tc.wantErr)
			case <-time.After(5 * time.Second):
				require.FailNow(t, "Run did not return")
			}
		})
	}
}

func TestRun_ClosedReloads(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	c := wmtest.NewClient()
	d := dispatch.New(mustLoad(t, `[{"_matches":[["class","A"]], "on_new":["x"]}]`), c)

	reloads := make(chan *rule.RuleSet)
	close(reloads)

	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, reloads)
	}()

	require.NoError(t, c.Send(ctx, newWindow(1, "A", "", "")))
	require.Eventually(t, func() bool {
		return len(c.Commands()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/benjamonnguyen/catfocus"
	"github.com/benjamonnguyen/catfocus/cmd/catfocus/models"
)

const timestampLayout = "2006-01-02 15:04"

type CommandHandler interface {
	// Execute runs one input line. quit is true when the user asked to exit.
	Execute(ctx context.Context, line string) (quit bool, err error)
}

type commandHandler struct {
	loop       FocusLoop
	collection CollectionProvider
	events     EventLog
	clock      catfocus.Clock
	out        io.Writer
}

func NewCommandHandler(
	loop FocusLoop,
	collection CollectionProvider,
	events EventLog,
	clock catfocus.Clock,
	out io.Writer,
) CommandHandler {
	return &commandHandler{
		loop:       loop,
		collection: collection,
		events:     events,
		clock:      clock,
		out:        out,
	}
}

func (h *commandHandler) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case catfocus.StartCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.session.Start()
			return fmt.Sprintf("started %s %s", s.session.Type(), s.session.Clock())
		})
	case catfocus.PauseCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.session.Pause()
			return fmt.Sprintf("paused %s %s", s.session.Type(), s.session.Clock())
		})
	case catfocus.ToggleCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.session.Toggle()
			verb := "paused"
			if s.session.Running() {
				verb = "started"
			}
			return fmt.Sprintf("%s %s %s", verb, s.session.Type(), s.session.Clock())
		})
	case catfocus.ResetCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.session.Reset()
			return fmt.Sprintf("reset %s to %s", s.session.Type(), s.session.Clock())
		})
	case catfocus.SwitchCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.session.SwitchType()
			return fmt.Sprintf("switched to %s %s", s.session.Type(), s.session.Clock())
		})
	case catfocus.FeedCommand:
		return false, h.update(ctx, feed)
	case catfocus.PlayCommand:
		return false, h.update(ctx, play)
	case catfocus.CollectCommand:
		return false, h.collect(ctx)
	case catfocus.LaterCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			card, ok := s.rewards.Dismiss()
			if !ok {
				return "no reward pending"
			}
			return fmt.Sprintf("%s wandered off. Maybe next time!", card.DisplayName)
		})
	case catfocus.TaskCommand:
		task := strings.Join(args, " ")
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			s.task = task
			if task == "" {
				return "task cleared"
			}
			return "task: " + task
		})
	case catfocus.CardsCommand:
		return false, h.cards(ctx, args)
	case catfocus.EventsCommand:
		return false, h.listEvents(ctx, args)
	case catfocus.LogCommand:
		return false, h.logEvent(ctx, args)
	case catfocus.DeleteCommand:
		return false, h.deleteEvent(ctx, args)
	case catfocus.StatusCommand:
		return false, h.update(ctx, func(_ context.Context, s *focusState) string {
			return renderStatus(s)
		})
	case catfocus.StatsCommand:
		return false, h.stats(ctx)
	case catfocus.HelpCommand:
		h.help()
		return false, nil
	case catfocus.QuitCommand, "exit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s (try %q)", catfocus.ErrUnknownCommand, name, catfocus.HelpCommand)
	}
}

// update runs fn on the loop and prints what it returns.
func (h *commandHandler) update(ctx context.Context, fn func(context.Context, *focusState) string) error {
	var msg string
	err := h.loop.Do(ctx, func(ctx context.Context, s *focusState) {
		msg = fn(ctx, s)
	})
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(h.out, msg)
	}
	return nil
}

func feed(_ context.Context, s *focusState) string {
	if !s.companion.Feed(s.now(), s.ledger) {
		return "No treats left. Complete a focus session to earn more."
	}
	return fmt.Sprintf("Nom nom! %s (treats left: %d)", s.companion.Mood().Message(), s.ledger.Treats())
}

func play(_ context.Context, s *focusState) string {
	now := s.now()
	if s.companion.IsPlaying(now) {
		return "Your cat is already playing!"
	}
	if !s.companion.Play(now, s.ledger) {
		return "No toys left. Complete a focus session to earn more."
	}
	return fmt.Sprintf("Your cat pounces on the toy! (toys left: %d)", s.ledger.Toys())
}

func (h *commandHandler) collect(ctx context.Context) error {
	var collectErr error
	err := h.update(ctx, func(ctx context.Context, s *focusState) string {
		card, added, err := s.rewards.Collect(ctx)
		switch {
		case err != nil:
			collectErr = err
			return ""
		case card.ID == "":
			return "no reward to collect"
		case !added:
			return fmt.Sprintf("%s is already in your collection", card.DisplayName)
		default:
			return fmt.Sprintf("Collected %s %s (%s)!", card.Emoji, card.DisplayName, card.Rarity)
		}
	})
	if err != nil {
		return err
	}
	return collectErr
}

func (h *commandHandler) cards(ctx context.Context, args []string) error {
	opts, rest := parseOptions(args)
	if len(rest) > 0 {
		return usageError(catfocus.CardsCommand)
	}

	var q catfocus.CardQuery
	for k, v := range opts {
		switch k {
		case catfocus.SearchOption:
			q.Search = v
		case catfocus.RarityOption:
			if v == "all" {
				continue
			}
			r, ok := catfocus.ParseRarity(strings.ToLower(v))
			if !ok {
				return fmt.Errorf("invalid rarity %q", v)
			}
			q.Rarity = r
		case catfocus.SortOption:
			sort, ok := catfocus.ParseCardSort(v)
			if !ok {
				return fmt.Errorf("invalid sort %q", v)
			}
			q.Sort = sort
		default:
			return usageError(catfocus.CardsCommand)
		}
	}

	cards, err := h.collection.Query(ctx, q)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(h.out, "no cards found")
		return nil
	}

	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s %s\t%s\tW%d C%d Ch%d F%d\t%s\n",
			c.Rarity, c.Emoji, c.DisplayName, c.SourcePersona,
			c.Attributes.Wisdom, c.Attributes.Cuteness, c.Attributes.Charm, c.Attributes.Fluffiness,
			c.ObtainedAt.Format(timestampLayout),
		)
	}
	return w.Flush()
}

func (h *commandHandler) listEvents(ctx context.Context, args []string) error {
	opts, rest := parseOptions(args)
	sortBy := catfocus.SortEventsByTimestamp
	desc := true
	for k, v := range opts {
		if k != catfocus.SortOption {
			return usageError(catfocus.EventsCommand)
		}
		f, ok := catfocus.ParseEventSortField(v)
		if !ok {
			return fmt.Errorf("invalid sort %q", v)
		}
		sortBy = f
	}
	for _, arg := range rest {
		switch strings.ToLower(arg) {
		case "asc":
			desc = false
		case "desc":
			desc = true
		default:
			return usageError(catfocus.EventsCommand)
		}
	}

	events, err := h.events.List(ctx, sortBy, desc)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(h.out, "no events yet")
		return nil
	}

	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t#%s\n", e.ID, e.Timestamp.Format(timestampLayout), e.Type, e.EventName, e.Tag)
	}
	return w.Flush()
}

// logEvent accepts "<name...> <tag> <focus|break>" so names may contain spaces.
func (h *commandHandler) logEvent(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usageError(catfocus.LogCommand)
	}
	t, ok := catfocus.ParseSessionType(strings.ToLower(args[len(args)-1]))
	if !ok {
		return usageError(catfocus.LogCommand)
	}

	inserted, err := h.events.Add(ctx, catfocus.SessionEventRecord{
		Timestamp: h.clock.Now(),
		EventName: strings.Join(args[:len(args)-2], " "),
		Tag:       args[len(args)-2],
		Type:      t,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "logged %s (%s)\n", inserted.EventName, inserted.ID)
	return nil
}

func (h *commandHandler) deleteEvent(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError(catfocus.DeleteCommand)
	}
	deleted, err := h.events.Delete(ctx, catfocus.SessionEventID(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "deleted %s\n", deleted.EventName)
	return nil
}

func (h *commandHandler) stats(ctx context.Context) error {
	var stats models.Stats
	err := h.loop.Do(ctx, func(_ context.Context, s *focusState) {
		stats = s.stats
	})
	if err != nil {
		return err
	}

	counts := h.collection.RarityCounts()
	fmt.Fprintf(h.out, "level %d (%d/%d xp)\n", stats.Level, stats.Experience, stats.ExperienceToNext)
	fmt.Fprintf(h.out, "sessions %d, focus minutes %d\n", stats.TotalSessions, stats.TotalFocusMinutes)
	fmt.Fprintf(h.out, "today %d/%d (%.0f%% of goal)\n", stats.TodaySessions, stats.WeeklyGoal, stats.GoalProgress()*100)
	fmt.Fprintf(h.out, "cards %d: legendary %d, epic %d, rare %d, common %d\n",
		h.collection.Count(),
		counts[catfocus.Legendary], counts[catfocus.Epic], counts[catfocus.Rare], counts[catfocus.Common],
	)
	return nil
}

func (h *commandHandler) help() {
	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	for _, c := range catfocus.Commands {
		fmt.Fprintf(w, "%s\t%s\n", c.Usage, c.Description)
	}
	_ = w.Flush()
}

func renderStatus(s *focusState) string {
	now := s.now()
	running := "paused"
	if s.session.Running() {
		running = "running"
	}
	mood := s.companion.Mood()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s\n", s.session.Type(), s.session.Clock(), s.session.TimerBar(), running)
	if s.task != "" {
		fmt.Fprintf(&b, "task: %s\n", s.task)
	}
	fmt.Fprintf(&b, "cat: %s (happiness %d, energy %d) %s\n",
		mood, s.companion.Happiness(), s.companion.Energy(), mood.Message())
	if s.companion.IsPlaying(now) {
		b.WriteString("cat: playing!\n")
	}
	fmt.Fprintf(&b, "treats %d, toys %d", s.ledger.Treats(), s.ledger.Toys())
	if card, ok := s.rewards.Pending(); ok {
		fmt.Fprintf(&b, "\nreward pending: %s %s (%s). Type %q or %q",
			card.Emoji, card.DisplayName, card.Rarity, catfocus.CollectCommand, catfocus.LaterCommand)
	}
	return b.String()
}

// parseOptions splits key=value arguments from positional ones.
func parseOptions(args []string) (map[string]string, []string) {
	opts := make(map[string]string)
	var rest []string
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			rest = append(rest, arg)
			continue
		}
		opts[strings.ToLower(k)] = v
	}
	return opts, rest
}

func usageError(name string) error {
	for _, c := range catfocus.Commands {
		if c.Name == name {
			return fmt.Errorf("usage: %s", c.Usage)
		}
	}
	return fmt.Errorf("%w: %s", catfocus.ErrUnknownCommand, name)
}

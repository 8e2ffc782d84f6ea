package app

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/nhle/smartcal/internal/model"
	"github.com/nhle/smartcal/internal/store"
	"github.com/nhle/smartcal/internal/theme"
)

// agendaItems lists the notes and standalone reminders of date, timed
// entries first in clock order. Note-derived reminders are folded into
// their note.
func agendaItems(s *store.Store, date string) []model.AgendaItem {
	var items []model.AgendaItem
	for _, n := range s.NotesFor(date) {
		items = append(items, n)
	}
	for _, r := range s.RemindersOn(date) {
		if r.Derived() {
			continue
		}
		items = append(items, r)
	}

	slices.SortStableFunc(items, func(a, b model.AgendaItem) int {
		at, bt := a.GetTime(), b.GetTime()
		switch {
		case at == "" && bt != "":
			return 1
		case at != "" && bt == "":
			return -1
		}
		return cmp.Compare(at, bt)
	})
	return items
}

// renderItem formats one agenda row.
func renderItem(item model.AgendaItem, selected bool) string {
	clock := "     "
	if t := item.GetTime(); t != "" {
		clock = t
	}

	var label string
	switch v := item.(type) {
	case model.Note:
		label = fmt.Sprintf("%s %s", emojiOrDefault(v.Emoji), v.Title)
		if v.Featured {
			label += " " + theme.FeaturedBadgeStyle.Render("pinned")
		}
		if v.Color != "" {
			label = theme.NoteColorStyle(v.Color).Render(label)
		}
	case model.Reminder:
		label = fmt.Sprintf("⏰ %s %s", v.Title, theme.PriorityStyle(string(v.Priority)).Render(string(v.Priority)))
	default:
		label = item.GetTitle()
	}

	row := fmt.Sprintf("%s  %s", clock, label)
	switch {
	case selected:
		return theme.SelectedItemStyle.Render(row)
	case item.IsDone():
		return theme.DimmedStyle.Render(row)
	default:
		return theme.ListItemStyle.Render(row)
	}
}

func emojiOrDefault(e string) string {
	if e == "" {
		return model.DefaultEmoji
	}
	return e
}

package accounts

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Origin, when set, is used to show the actor URL each account is
	// served under.
	Origin string
}

func renderView(m model) string {
	s := m.styles
	lines := []string{
		s.title.Render("Federated Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(m.rows))),
	}

	if len(m.rows) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, summaryLine(m.summary, s))
	if m.originErr != nil {
		lines = append(lines, s.warning.Render("origin: "+m.originErr.Error()))
	}

	for _, row := range m.rows {
		lines = append(lines, s.section.Render(renderAccount(row, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryLine(summary keySummary, s styles) string {
	keys := s.ok.Render(fmt.Sprintf("%d ok", summary.valid))
	if summary.invalid > 0 {
		keys += ", " + s.warning.Render(fmt.Sprintf("%d invalid", summary.invalid))
	}

	line := s.header.Render("keys:") + " " + keys
	if summary.withoutProfile > 0 {
		line += " " + s.header.Render(fmt.Sprintf("| without profile page: %d", summary.withoutProfile))
	}

	return line
}

func renderAccount(row accountRow, s styles) string {
	account := row.account
	parts := []string{
		s.account.Render(fmt.Sprintf("%s (%s)", account.Handle, account.ID)),
	}

	if row.actorURL != "" {
		parts = append(parts, field("actor", s.detail.Render(row.actorURL), s))
	}

	parts = append(parts,
		field("profile", valueOrNone(account.ProfileURL, s), s),
		field("icon", valueOrNone(account.ProfileImageURL, s), s),
		field("key", keyStatus(row.keyErr, s), s),
		field("published", publishedLabel(account.CreatedAt, s), s),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func field(name, value string, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(name+":"), " ", value)
}

func valueOrNone(value string, s styles) string {
	if value == "" {
		return s.empty.Render("none")
	}
	return s.detail.Render(value)
}

func keyStatus(keyErr error, s styles) string {
	if keyErr != nil {
		return s.warning.Render("invalid (" + keyErr.Error() + ")")
	}
	return s.ok.Render("ok")
}

func publishedLabel(createdAt time.Time, s styles) string {
	if createdAt.IsZero() {
		return s.empty.Render("unknown")
	}
	return s.detail.Render(createdAt.UTC().Format(time.RFC3339))
}

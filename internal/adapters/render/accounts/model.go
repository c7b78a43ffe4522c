package accounts

import (
	"errors"
	"io"
	"sort"

	"github.com/bnema/garm/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// accountRow is one account with everything the view shows already derived.
type accountRow struct {
	account  domain.Account
	actorURL string
	keyErr   error
}

type keySummary struct {
	valid          int
	invalid        int
	withoutProfile int
}

type model struct {
	rows      []accountRow
	summary   keySummary
	originErr error
	styles    styles
	output    string
}

func newModel(accounts []domain.Account, opts RenderOptions) model {
	m := model{styles: newStyles()}

	var builder *domain.URLBuilder
	if opts.Origin != "" {
		b, err := domain.NewURLBuilder(opts.Origin)
		if err != nil {
			m.originErr = err
		} else {
			builder = &b
		}
	}

	m.rows = make([]accountRow, 0, len(accounts))
	for _, account := range accounts {
		row := accountRow{account: account}
		if builder != nil {
			row.actorURL = builder.Identity(account.Handle)
		}
		if _, err := domain.ValidatePublicKeyPEM(account.PublicKey); err != nil {
			row.keyErr = err
			m.summary.invalid++
		} else {
			m.summary.valid++
		}
		if account.ProfileURL == "" {
			m.summary.withoutProfile++
		}
		m.rows = append(m.rows, row)
	}

	sort.SliceStable(m.rows, func(i, j int) bool {
		return m.rows[i].account.Handle < m.rows[j].account.Handle
	})

	return m
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the account list once through a headless bubbletea program
// and returns the final frame. Accounts are listed by handle.
func Render(accounts []domain.Account, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(accounts, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

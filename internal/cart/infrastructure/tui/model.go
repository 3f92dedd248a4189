package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
)

// CartStore is the part of application.Store the terminal view drives.
type CartStore interface {
	Snapshot() application.Snapshot
	Load(ctx context.Context) error
	Dispatch(ctx context.Context, in application.Intent) error
}

// Model is the Bubble Tea model for the cart page.
type Model struct {
	ctx   context.Context
	store CartStore

	width  int
	height int
	styles Styles

	snap       application.Snapshot
	cursor     int
	busy       bool
	spinner    spinner.Model
	promoInput textinput.Model
	editPromo  bool
}

// Messages
type (
	// stateMsg carries the page state after an intent finished. err is
	// already reflected in the snapshot as an error or notice.
	stateMsg struct {
		snap application.Snapshot
		err  error
	}
)

func NewModel(ctx context.Context, store CartStore) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Placeholder = "Promo code"
	ti.CharLimit = 20
	ti.Width = 20

	return Model{
		ctx:        ctx,
		store:      store,
		styles:     DefaultStyles(),
		snap:       store.Snapshot(),
		busy:       true,
		spinner:    sp,
		promoInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.busy = false
		m.snap = msg.snap
		if m.cursor >= len(m.snap.Items) {
			m.cursor = max(0, len(m.snap.Items)-1)
		}
		if msg.err == nil && m.snap.Promo.Applied {
			m.promoInput.SetValue(m.snap.Promo.Code)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.editPromo {
		switch key {
		case "enter":
			m.editPromo = false
			m.promoInput.Blur()
			return m.run(application.ApplyPromo{Code: m.promoInput.Value()})
		case "esc":
			m.editPromo = false
			m.promoInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.promoInput, cmd = m.promoInput.Update(msg)
		return m, cmd
	}

	if key == "q" {
		return m, tea.Quit
	}
	// One request at a time; keys are ignored until the last one settles.
	if m.busy {
		return m, nil
	}

	switch m.snap.Mode {
	case domain.ModeError:
		if key == "r" {
			return m.run(application.Reload{})
		}
		return m, nil
	case domain.ModeLoading:
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}
	case "+", "=", "right", "l":
		if id, ok := m.focused(); ok {
			return m.run(application.UpdateQuantity{ItemID: id, Delta: 1})
		}
	case "-", "left", "h":
		if id, ok := m.focused(); ok {
			return m.run(application.UpdateQuantity{ItemID: id, Delta: -1})
		}
	case "x", "delete":
		if id, ok := m.focused(); ok {
			return m.run(application.RemoveItem{ItemID: id})
		}
	case "p":
		if !m.snap.Promo.Applied {
			m.editPromo = true
			m.promoInput.Focus()
			return m, textinput.Blink
		}
	case "d":
		next := domain.DeliveryExpress
		if m.snap.Delivery == domain.DeliveryExpress {
			next = domain.DeliveryStandard
		}
		return m.run(application.SetDeliveryOption{Option: next})
	case "m":
		return m.run(application.SetPaymentMethod{Method: nextPayment(m.snap.Payment)})
	case "r":
		return m.run(application.Reload{})
	}

	return m, nil
}

func (m Model) focused() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Items) {
		return "", false
	}
	return m.snap.Items[m.cursor].ID, true
}

func (m Model) run(in application.Intent) (tea.Model, tea.Cmd) {
	m.busy = true
	store, ctx := m.store, m.ctx
	return m, func() tea.Msg {
		err := store.Dispatch(ctx, in)
		return stateMsg{snap: store.Snapshot(), err: err}
	}
}

func (m Model) load() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		err := store.Load(ctx)
		return stateMsg{snap: store.Snapshot(), err: err}
	}
}

func nextPayment(current domain.PaymentMethod) domain.PaymentMethod {
	for i, pm := range domain.PaymentMethods {
		if pm == current {
			return domain.PaymentMethods[(i+1)%len(domain.PaymentMethods)]
		}
	}
	return domain.PaymentCard
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Shopping Cart"))
	sb.WriteString("\n")

	switch {
	case m.snap.Mode == domain.ModeLoading || (m.busy && m.snap.Mode != domain.ModeReady):
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Loading your cart...")
	case m.snap.Mode == domain.ModeError:
		sb.WriteString(m.styles.Error.Render("Error: " + m.snap.Error))
		sb.WriteString("\n")
		sb.WriteString(m.styles.HelpBar.Render("r reload • q quit"))
	default:
		sb.WriteString(m.viewCart())
	}

	return m.styles.App.Render(sb.String())
}

func (m Model) viewCart() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Box.Render(RenderItems(m.styles, m.snap, m.cursor)))
	sb.WriteString("\n")

	if m.snap.Notice != "" {
		sb.WriteString(m.styles.Notice.Render(m.snap.Notice))
		sb.WriteString("\n")
	}

	if !m.snap.Empty() {
		switch {
		case m.snap.Promo.Applied:
			sb.WriteString(m.styles.Success.Render("Promo " + m.snap.Promo.Code + " applied"))
		case m.editPromo:
			sb.WriteString("Promo: " + m.promoInput.View())
		default:
			sb.WriteString(m.styles.Subtle.Render("Have a promo code? press p"))
		}
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Box.Render(RenderSummary(m.styles, m.snap)))
	}

	help := "↑/↓ select • +/- quantity • x remove • p promo • d delivery • m payment • r reload • q quit"
	if m.busy {
		help = m.spinner.View() + " working..."
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.HelpBar.Render(help))
	return sb.String()
}

// Snapshot returns the page state last seen by the view (for testing).
func (m Model) Snapshot() application.Snapshot {
	return m.snap
}

// Cursor returns the focused item index (for testing).
func (m Model) Cursor() int {
	return m.cursor
}

package app

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/ui/backend"
	"github.com/odvcencio/interpose/pkg/ui/runtime"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

const statusHint = "q: quit/detach"

// drawStatus renders the main view: a pane titled with the session name
// listing the upstream, status and session id, with the key hint at the
// bottom.
func drawStatus(frame runtime.Frame, st *state.State, th *theme.Theme) {
	w, h := frame.Size()
	area := runtime.NewRect(0, 0, w, h)
	if area.Width < 4 || area.Height < 3 {
		return
	}

	frame.DrawBox(area, th.Pane(false))
	if st.SessionName != "" {
		title := runewidth.Truncate(" "+st.SessionName+" ", area.Width-4, "…")
		frame.SetString(2, 0, title, th.Title)
	}

	inner := area.Margin(2, 1)
	rows := []struct {
		label string
		value string
		style backend.Style
	}{
		{"upstream", st.Upstream, th.TextPrimary},
		{"status", st.Status, th.Success},
		{"session", st.SessionID, th.TextMuted},
	}
	for i, row := range rows {
		if i >= inner.Height-1 {
			break
		}
		y := inner.Y + i
		label := runewidth.FillRight(row.label, 10)
		col := frame.SetString(inner.X, y, runewidth.Truncate(label, inner.Width, ""), th.TextMuted)
		if rest := inner.Width - col; rest > 0 {
			frame.SetString(inner.X+col, y, runewidth.Truncate(row.value, rest, "…"), row.style)
		}
	}

	if inner.Height > 0 {
		frame.SetString(inner.X, inner.Y+inner.Height-1, runewidth.Truncate(statusHint, inner.Width, ""), th.TextMuted)
	}
}

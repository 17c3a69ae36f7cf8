package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type View struct {
	LoggedIn bool
	Token    string
	Profile  domain.Profile
	Route    string
}

type RenderOptions struct {
	Now time.Time
}

func renderView(view View, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("IoT Warehouse Session")}

	if !view.LoggedIn {
		lines = append(lines, s.empty.Render("Not logged in. Run `wa login` to start a session."))
		if view.Route != "" {
			lines = append(lines, field(s, "last route", view.Route))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	name := view.Profile.Username()
	if name == "" {
		name = "(unnamed user)"
	}
	lines = append(lines, s.user.Render(name))
	if role := view.Profile.Role(); role != "" {
		lines = append(lines, s.header.Render("role: "+role))
	}
	if id := view.Profile.Identity(); id != "" {
		lines = append(lines, field(s, "user id", id))
	}

	lines = append(lines, s.section.Render(tokenLines(view.Token, opts, s)))

	if extra := profileLines(view.Profile, s); extra != "" {
		lines = append(lines, s.section.Render(extra))
	}
	if view.Route != "" {
		lines = append(lines, s.section.Render(field(s, "last route", view.Route)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func tokenLines(token string, opts RenderOptions, s styles) string {
	if token == domain.SentinelToken {
		return lipgloss.JoinVertical(lipgloss.Left,
			field(s, "token", token),
			s.warning.Render("server issued no token; placeholder in use"),
		)
	}

	parts := []string{field(s, "token", maskToken(token))}

	claims, ok := ParseClaims(token)
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	if claims.Subject != "" {
		parts = append(parts, field(s, "subject", claims.Subject))
	}
	if claims.Issuer != "" {
		parts = append(parts, field(s, "issuer", claims.Issuer))
	}
	if !claims.IssuedAt.IsZero() {
		parts = append(parts, field(s, "issued", claims.IssuedAt.UTC().Format(time.RFC3339)))
	}
	if !claims.ExpiresAt.IsZero() {
		parts = append(parts, expiryLine(claims, opts.Now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func expiryLine(claims TokenClaims, now time.Time, s styles) string {
	stamp := claims.ExpiresAt.UTC().Format(time.RFC3339)
	if now.IsZero() {
		return field(s, "expires", stamp)
	}
	if claims.Expired(now) {
		return field(s, "expires", stamp) + " " + s.warning.Render("[expired]")
	}
	return field(s, "expires", stamp) + " " + s.ok.Render(fmt.Sprintf("(in %s)", formatRemaining(claims.ExpiresAt.Sub(now))))
}

func profileLines(profile domain.Profile, s styles) string {
	profile = profile.Redacted()
	keys := make([]string, 0, len(profile))
	for key := range profile {
		switch key {
		case "userId", "id", "username", "role":
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, field(s, key, profile.String(key)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(s styles, key, value string) string {
	return s.key.Render(key+":") + " " + s.detail.Render(value)
}

func maskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "..." + token[len(token)-4:]
}

func formatRemaining(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "under a minute"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

package dashboard

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/oncovoice/internal/adapter/dto/result"
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/team"
	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// DefaultPreviewLength is how many characters of the summary a card shows
const DefaultPreviewLength = 200

// RenderOptions controls what a frame shows
type RenderOptions struct {
	// SessionID limits the frame to one breakout session; 0 shows all
	SessionID     int
	PreviewLength int
	Color         bool
}

// Render writes one frame: a header per session and a card per team
func Render(w io.Writer, catalog *team.CatalogResponse, results *result.ResultsResponse, opts RenderOptions) error {
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = DefaultPreviewLength
	}
	paint := func(color, s string) string {
		if !opts.Color {
			return s
		}
		return color + s + colorReset
	}

	var b strings.Builder
	shown := 0
	for _, session := range catalog.Sessions {
		if opts.SessionID != 0 && session.ID != opts.SessionID {
			continue
		}
		fmt.Fprintf(&b, "%s\n", paint(colorBlue, fmt.Sprintf("== %s ==", session.Name)))

		for _, t := range session.Teams {
			shown++
			var rec *result.ResultResponse
			if results != nil {
				rec = results.Results[entities.ResultKey(t.ID)]
			}
			writeCard(&b, t, rec, opts, paint)
		}
		b.WriteString("\n")
	}

	if shown == 0 {
		if opts.SessionID != 0 {
			fmt.Fprintf(&b, "No teams in session %d\n", opts.SessionID)
		} else {
			b.WriteString("No teams configured\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, t *team.TeamResponse, rec *result.ResultResponse, opts RenderOptions, paint func(string, string) string) {
	fmt.Fprintf(b, "%s %s | %s\n", statusBadge(rec, paint), t.Name, t.TopicName)

	if !t.HasDocument {
		fmt.Fprintf(b, "    %s\n", paint(colorGray, "no reference document mapped"))
	}
	if rec == nil {
		return
	}

	switch entities.ResultStatus(rec.Status) {
	case entities.ResultStatusCompleted:
		fmt.Fprintf(b, "    %s\n", Preview(rec.Summary, opts.PreviewLength))
		if rec.NarrationURL != "" {
			fmt.Fprintf(b, "    narration: %s\n", rec.NarrationURL)
		}
	case entities.ResultStatusFailed, entities.ResultStatusError:
		fmt.Fprintf(b, "    %s\n", paint(colorRed, Preview(rec.Error, opts.PreviewLength)))
	}
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(b, "    %s\n", paint(colorGray, "updated "+rec.CreatedAt.Local().Format("15:04:05")))
	}
}

func statusBadge(rec *result.ResultResponse, paint func(string, string) string) string {
	if rec == nil {
		return paint(colorGray, "[ waiting    ]")
	}
	status := entities.ResultStatus(rec.Status)
	label := fmt.Sprintf("[ %-10s ]", rec.Status)
	switch {
	case status == entities.ResultStatusCompleted:
		return paint(colorGreen, label)
	case status.IsInFlight():
		return paint(colorYellow, label)
	case status == entities.ResultStatusFailed || status == entities.ResultStatusError:
		return paint(colorRed, label)
	}
	return label
}

// Preview returns the first n characters of s on one line, marking truncation with "..."
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

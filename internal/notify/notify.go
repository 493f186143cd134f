// Package notify shows the modal dialogs operators see after saving a record.
package notify

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	TitleSaved          = "Saved"
	TitleError          = "Error"
	TitleMandatoryField = "Mandatory Field"

	TextSaved     = "The record has been saved"
	TextSaveError = "There was an error saving the record"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Dialog struct {
	Title string
	Text  string
	HTML  string
	Kind  Kind
}

func Success(text string) Dialog {
	return Dialog{Title: TitleSaved, Text: text, Kind: KindSuccess}
}

func Failure(text string) Dialog {
	return Dialog{Title: TitleError, Text: text, Kind: KindError}
}

// Notifier presents a dialog and returns once it has been dismissed.
type Notifier interface {
	Notify(ctx context.Context, d Dialog) error
}

// LogNotifier writes dialogs to the log instead of showing them.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, d Dialog) error {
	ev := n.Logger.Info()
	if d.Kind == KindError {
		ev = n.Logger.Warn()
	}
	ev.Str("title", d.Title).Str("kind", string(d.Kind))
	if d.Text != "" {
		ev.Str("text", d.Text)
	}
	if d.HTML != "" {
		ev.Str("html", d.HTML)
	}
	ev.Msg("dialog")
	return nil
}

// WriterNotifier prints dialogs as plain text, for terminals.
type WriterNotifier struct {
	W io.Writer
}

var tags = regexp.MustCompile(`<[^>]+>`)

func (n WriterNotifier) Notify(_ context.Context, d Dialog) error {
	body := d.Text
	if d.HTML != "" {
		body = strings.TrimSpace(tags.ReplaceAllString(strings.ReplaceAll(d.HTML, "</li>", "\n"), ""))
	}
	_, err := fmt.Fprintf(n.W, "[%s] %s\n%s\n", strings.ToUpper(string(d.Kind)), d.Title, body)
	return err
}

// Recorder keeps every dialog it is asked to show.
type Recorder struct {
	mu      sync.Mutex
	dialogs []Dialog
}

func (r *Recorder) Notify(_ context.Context, d Dialog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs = append(r.dialogs, d)
	return nil
}

func (r *Recorder) Dialogs() []Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Dialog, len(r.dialogs))
	copy(out, r.dialogs)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs = nil
}

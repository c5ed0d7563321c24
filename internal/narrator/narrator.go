// Package narrator asks Gemini for optional prose around a run: a line of
// atmosphere for an event and an epilogue once the run has ended. The game is
// fully playable without it.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

//go:embed prompts/epilogue.txt
var epiloguePrompt string

//go:embed prompts/summarize_log.txt
var summarizeLogPrompt string

//go:embed prompts/event_flavor.txt
var eventFlavorPrompt string

var (
	epilogueTmpl  = template.Must(template.New("epilogue").Parse(epiloguePrompt))
	summarizeTmpl = template.Must(template.New("summarize_log").Parse(summarizeLogPrompt))
	flavorTmpl    = template.Must(template.New("event_flavor").Parse(eventFlavorPrompt))
)

const (
	// Logs longer than this are condensed before the epilogue prompt.
	summarizeAfter = 8
	keepRecent     = 3
)

// generator is the part of *genai.GenerativeModel the narrator needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Narrator struct {
	client *genai.Client
	model  generator
	tables *content.Tables
	log    logrus.FieldLogger
}

// New connects to Gemini with the given key and model name.
func New(ctx context.Context, apiKey, modelName string, tables *content.Tables, log logrus.FieldLogger) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Narrator{
		client: client,
		model:  client.GenerativeModel(modelName),
		tables: tables,
		log:    log.WithField("component", "narrator"),
	}, nil
}

func (n *Narrator) Close() {
	if n.client != nil {
		n.client.Close()
	}
}

// Flavor returns a sentence or two of atmosphere for an event.
func (n *Narrator) Flavor(ctx context.Context, snap *models.Snapshot, ev *models.GameEvent) (string, error) {
	region := snap.Region
	if r, ok := n.tables.Region(snap.Region); ok {
		region = r.Label
	}
	prompt, err := render(flavorTmpl, struct {
		Name        string
		Year        int
		Quarter     int
		Region      string
		Title       string
		Description string
	}{
		Name:        snap.Profile.Name,
		Year:        snap.Clock.Year,
		Quarter:     snap.Clock.Quarter,
		Region:      region,
		Title:       ev.Title,
		Description: ev.Description,
	})
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

// Epilogue narrates the end of a finished run.
func (n *Narrator) Epilogue(ctx context.Context, snap *models.Snapshot) (string, error) {
	if !snap.GameOver {
		return "", fmt.Errorf("run %s has not ended", snap.RunID)
	}
	ending, ok := n.tables.Ending(snap.Ending)
	if !ok {
		return "", fmt.Errorf("unknown ending %q", snap.Ending)
	}

	major := string(snap.Profile.Major)
	if m, ok := n.tables.Major(snap.Profile.Major); ok {
		major = m.Label
	}

	perYear := max(n.tables.Balance.QuartersPerYear, 1)
	data := epilogueData{
		Profile:  snap.Profile,
		Major:    major,
		Years:    snap.Clock.TotalQuarters / perYear,
		Quarters: snap.Clock.TotalQuarters % perYear,
		Stats:    snap.Stats,
		Visa:     snap.Visa.Subclass,
		Ending:   ending,
		Reason:   snap.GameOverReason,
		Recent:   snap.EventsLog,
	}

	if len(snap.EventsLog) > summarizeAfter {
		summary, err := n.Summarize(ctx, "", snap.EventsLog[keepRecent:])
		if err != nil {
			// Fall back to the full log.
			n.log.WithError(err).Warn("Failed to summarize log")
		} else {
			data.Summary = summary
			data.Recent = snap.EventsLog[:keepRecent]
		}
	}

	prompt, err := render(epilogueTmpl, data)
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

type epilogueData struct {
	Profile  models.Profile
	Major    string
	Years    int
	Quarters int
	Stats    models.Stats
	Visa     models.VisaSubclass
	Ending   models.EndingDef
	Reason   string
	Summary  string
	Recent   []string
}

// Summarize condenses newest-first log entries, extending an existing
// summary when one is given.
func (n *Narrator) Summarize(ctx context.Context, current string, newestFirst []string) (string, error) {
	entries := slices.Clone(newestFirst)
	slices.Reverse(entries)

	prompt, err := render(summarizeTmpl, struct {
		CurrentSummary string
		Entries        []string
	}{
		CurrentSummary: current,
		Entries:        entries,
	})
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

func (n *Narrator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return textOf(resp)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	out := strings.TrimSpace(string(text))
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out), nil
}

// Package seed imports legacy site fixtures through the site command
// handlers.
//
// Fixture files are YAML in the wide shape the old site stored: base keys
// hold default-locale copy and suffixed keys (heroTitleEn) hold the
// secondary locale. Markdown documents carry front matter naming the area,
// field and locale their body belongs to.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/catalog"
	sitecmd "github.com/goliatone/go-sitecms/internal/commands/site"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

var (
	ErrHandlersMissing = errors.New("seed: command handlers are required")
	ErrDocumentTarget  = errors.New("seed: document front matter must name area, field and locale")
)

// Fixture is one YAML fixture file.
type Fixture struct {
	Areas    map[string]map[string]any `yaml:"areas"`
	Projects []map[string]any          `yaml:"projects"`
	Clients  []map[string]any          `yaml:"clients"`
}

// Report counts imported items.
type Report struct {
	Areas     int `json:"areas"`
	Projects  int `json:"projects"`
	Clients   int `json:"clients"`
	Documents int `json:"documents"`
}

func (r *Report) add(other Report) {
	r.Areas += other.Areas
	r.Projects += other.Projects
	r.Clients += other.Clients
	r.Documents += other.Documents
}

// Option configures an Importer.
type Option func(*Importer)

func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func WithLocales(set locale.Set) Option {
	return func(i *Importer) {
		i.locales = set
	}
}

// WithClients lets client fixtures replace existing clients with the same
// default-locale name instead of adding duplicates.
func WithClients(clients catalog.ClientService) Option {
	return func(i *Importer) {
		i.clients = clients
	}
}

// WithActor records imports as made by actor.
func WithActor(actor uuid.UUID) Option {
	return func(i *Importer) {
		i.actor = actor
	}
}

// Importer runs fixtures through the command handlers.
type Importer struct {
	handlers *sitecmd.HandlerSet
	clients  catalog.ClientService
	locales  locale.Set
	logger   interfaces.Logger
	actor    uuid.UUID
}

func NewImporter(handlers *sitecmd.HandlerSet, opts ...Option) (*Importer, error) {
	if handlers == nil {
		return nil, ErrHandlersMissing
	}
	i := &Importer{
		handlers: handlers,
		locales:  locale.DefaultSet(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

// ImportPath imports a fixture file, a markdown document or every such file
// under a directory, in lexical order.
func (i *Importer) ImportPath(ctx context.Context, path string) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, err
	}
	if !info.IsDir() {
		return i.importFile(ctx, path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && supported(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	sort.Strings(files)

	var total Report
	for _, file := range files {
		report, err := i.importFile(ctx, file)
		total.add(report)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".md", ".markdown":
		return true
	}
	return false
}

func (i *Importer) importFile(ctx context.Context, path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	i.logger.Info("seed.file.start", "path", path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		if err := i.ImportDocument(ctx, f); err != nil {
			return Report{}, fmt.Errorf("seed: %s: %w", path, err)
		}
		return Report{Documents: 1}, nil
	default:
		report, err := i.ImportFixtures(ctx, f)
		if err != nil {
			return report, fmt.Errorf("seed: %s: %w", path, err)
		}
		return report, nil
	}
}

// ImportFixtures decodes a YAML fixture and imports areas, then projects,
// then clients. Areas import in name order.
func (i *Importer) ImportFixtures(ctx context.Context, r io.Reader) (Report, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return Report{}, fmt.Errorf("decode fixture: %w", err)
	}

	var report Report
	names := make([]string, 0, len(fixture.Areas))
	for name := range fixture.Areas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err := i.handlers.ImportArea.Execute(ctx, sitecmd.ImportAreaCommand{
			Area:    name,
			Values:  fixture.Areas[name],
			ActorID: i.actor,
		})
		if err != nil {
			return report, fmt.Errorf("area %s: %w", name, err)
		}
		report.Areas++
	}

	for idx, wide := range fixture.Projects {
		input := i.projectInput(wide)
		err := i.handlers.UpsertProject.Execute(ctx, sitecmd.UpsertProjectCommand{Input: input, ActorID: i.actor})
		if err != nil {
			return report, fmt.Errorf("project %d: %w", idx, err)
		}
		report.Projects++
	}

	for idx, wide := range fixture.Clients {
		if err := i.importClient(ctx, wide); err != nil {
			return report, fmt.Errorf("client %d: %w", idx, err)
		}
		report.Clients++
	}

	i.logger.Info("seed.fixture.imported", "areas", report.Areas, "projects", report.Projects, "clients", report.Clients)
	return report, nil
}

func (i *Importer) projectInput(wide map[string]any) catalog.ProjectInput {
	cover := stringValue(wide, "coverImage")
	if cover == "" {
		cover = stringValue(wide, "image")
	}
	order := intValue(wide, "sortOrder")
	if order == 0 {
		order = intValue(wide, "order")
	}
	return catalog.ProjectInput{
		Slug:        stringValue(wide, "slug"),
		Title:       i.text(wide, "title"),
		Description: i.text(wide, "description"),
		Location:    i.text(wide, "location"),
		Category:    stringValue(wide, "category"),
		Type:        stringValue(wide, "type"),
		Year:        intValue(wide, "year"),
		CoverImage:  cover,
		Images:      stringsValue(wide, "images"),
		Published:   boolValue(wide, "published", true),
		SortOrder:   order,
	}
}

// importClient matches existing clients by default-locale name, since
// legacy client rows have no slug.
func (i *Importer) importClient(ctx context.Context, wide map[string]any) error {
	input := catalog.ClientInput{
		Name:        i.text(wide, "name"),
		Description: i.text(wide, "description"),
		Logo:        firstNonEmpty(stringValue(wide, "logo"), stringValue(wide, "image")),
		Website:     stringValue(wide, "website"),
		Published:   boolValue(wide, "published", true),
		SortOrder:   firstNonZero(intValue(wide, "sortOrder"), intValue(wide, "order")),
	}
	cmd := sitecmd.UpsertClientCommand{Input: input, ActorID: i.actor}
	if id, ok := i.existingClient(ctx, input.Name.Get(i.locales.Default)); ok {
		cmd.ID = id
	}
	return i.handlers.UpsertClient.Execute(ctx, cmd)
}

func (i *Importer) existingClient(ctx context.Context, name string) (uuid.UUID, bool) {
	if i.clients == nil || strings.TrimSpace(name) == "" {
		return uuid.Nil, false
	}
	clients, err := i.clients.List(ctx, catalog.ListOptions{})
	if err != nil {
		return uuid.Nil, false
	}
	for _, c := range clients {
		if strings.EqualFold(c.Name.Get(i.locales.Default), name) {
			return c.ID, true
		}
	}
	return uuid.Nil, false
}

func (i *Importer) text(wide map[string]any, key string) bilingual.Text {
	return bilingual.NewText(i.locales,
		stringValue(wide, key),
		stringValue(wide, bilingual.SuffixedKey(key, i.locales.Secondary)),
	)
}

type documentTarget struct {
	Area   string `yaml:"area"`
	Field  string `yaml:"field"`
	Locale string `yaml:"locale"`
}

// ImportDocument stores a markdown body into the rich text field named by
// its front matter.
func (i *Importer) ImportDocument(ctx context.Context, r io.Reader) error {
	var target documentTarget
	body, err := frontmatter.Parse(r, &target)
	if err != nil {
		return fmt.Errorf("parse front matter: %w", err)
	}
	if target.Area == "" || target.Field == "" || target.Locale == "" {
		return ErrDocumentTarget
	}
	loc, err := i.locales.Parse(target.Locale)
	if err != nil {
		return err
	}
	return i.handlers.SaveArea.Execute(ctx, sitecmd.SaveAreaCommand{
		Area:    target.Area,
		Locale:  loc,
		Values:  map[string]any{target.Field: string(bytes.TrimSpace(body))},
		ActorID: i.actor,
	})
}

func stringValue(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func intValue(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func boolValue(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}

func stringsValue(m map[string]any, key string) []string {
	items, _ := m[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

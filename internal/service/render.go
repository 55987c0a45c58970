package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"

	"docgen/internal/config"
	"docgen/internal/convert"
	"docgen/internal/docx"
	"docgen/internal/model"
	"docgen/internal/report"
	"docgen/internal/repository"
	"docgen/internal/storage"
	"docgen/internal/viewmodel"
)

// RenderService produces deliverable documents from records. Each render
// re-reads the current template slot, so replacing a template takes effect
// on the next request.
type RenderService interface {
	RenderProposal(ctx context.Context, rec *model.Proposal, format model.Format) (*model.Artifact, error)
	RenderBilling(ctx context.Context, rec *model.Billing, format model.Format) (*model.Artifact, error)
}

type renderService struct {
	repo    repository.TemplateRepository
	store   storage.Storage
	chain   *convert.Chain
	gen     *report.Generator
	sender  config.SenderConfig
	now     func() time.Time
	renders *prometheus.CounterVec
}

// NewRenderService constructs a RenderService. reg may be nil to skip
// metrics registration (tests).
func NewRenderService(repo repository.TemplateRepository, store storage.Storage, chain *convert.Chain, sender config.SenderConfig, reg prometheus.Registerer) (RenderService, error) {
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docgen_renders_total",
		Help: "Total rendered documents by kind, delivered format and fallback flag.",
	}, []string{"kind", "format", "fallback"})
	if reg != nil {
		if err := reg.Register(renders); err != nil {
			return nil, fmt.Errorf("register render counter: %w", err)
		}
	}
	return &renderService{
		repo:    repo,
		store:   store,
		chain:   chain,
		gen:     &report.Generator{LogoPath: sender.LogoPath},
		sender:  sender,
		now:     time.Now,
		renders: renders,
	}, nil
}

func (s *renderService) RenderProposal(ctx context.Context, rec *model.Proposal, format model.Format) (*model.Artifact, error) {
	now := s.now()
	vm := viewmodel.ProjectProposal(rec, s.sender, now)
	base := artifactBaseName(rec.ClientName, model.KindProposal, now)

	tmpl, err := s.loadTemplate(ctx, model.KindProposal)
	if errors.Is(err, sql.ErrNoRows) {
		// No slot configured: proposals fall back to generated layouts.
		if format == model.FormatDocx {
			pkg, err := docx.BuildProposal(vm)
			if err != nil {
				return nil, fmt.Errorf("build proposal document: %w", err)
			}
			art := nativeArtifact(pkg, model.FormatDocx, base)
			s.count(model.KindProposal, art)
			return art, nil
		}
		data, err := s.gen.Build(vm)
		if err != nil {
			return nil, fmt.Errorf("build proposal report: %w", err)
		}
		art := nativeArtifact(data, model.FormatPDF, base)
		s.count(model.KindProposal, art)
		return art, nil
	}
	if err != nil {
		return nil, err
	}

	filled, err := s.fill(tmpl, vm.Placeholders())
	if err != nil {
		return nil, err
	}
	art := s.chain.Deliver(ctx, filled, format, base)
	s.count(model.KindProposal, art)
	return art, nil
}

func (s *renderService) RenderBilling(ctx context.Context, rec *model.Billing, format model.Format) (*model.Artifact, error) {
	now := s.now()
	vm := viewmodel.ProjectBilling(rec, s.sender, now)
	base := artifactBaseName(rec.CustomerName, model.KindBilling, now)

	tmpl, err := s.loadTemplate(ctx, model.KindBilling)
	if errors.Is(err, sql.ErrNoRows) {
		// Invoices carry bank and legal wording that only the uploaded
		// template knows; there is no generated fallback.
		return nil, ErrNoTemplate
	}
	if err != nil {
		return nil, err
	}

	filled, err := s.fill(tmpl, vm.Placeholders())
	if err != nil {
		return nil, err
	}
	art := s.chain.Deliver(ctx, filled, format, base)
	s.count(model.KindBilling, art)
	return art, nil
}

// loadTemplate fetches the slot row and its binary. Returns sql.ErrNoRows
// (wrapped) when the slot is vacant.
func (s *renderService) loadTemplate(ctx context.Context, kind model.DocumentKind) ([]byte, error) {
	tmpl, err := s.repo.FindByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("find template for %s: %w", kind, err)
	}
	rc, _, err := s.store.Get(ctx, tmpl.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch template binary: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read template binary: %w", err)
	}
	return data, nil
}

// fill runs the two-pass substitution pipeline over a template package.
// Structural problems and unknown field references both surface as
// ErrMalformedTemplate: the template needs fixing, not the record.
func (s *renderService) fill(pkg []byte, vm *viewmodel.ViewModel) ([]byte, error) {
	normalized, err := docx.Normalize(pkg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}
	filled, err := docx.Render(normalized, vm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}
	return filled, nil
}

func (s *renderService) count(kind model.DocumentKind, art *model.Artifact) {
	format := model.FormatPDF
	if strings.HasSuffix(art.Filename, model.FormatDocx.Ext()) {
		format = model.FormatDocx
	}
	s.renders.WithLabelValues(string(kind), string(format), fmt.Sprintf("%t", art.Fallback)).Inc()
}

func nativeArtifact(data []byte, f model.Format, baseName string) *model.Artifact {
	return &model.Artifact{
		Bytes:       data,
		ContentType: f.ContentType(),
		Filename:    baseName + "." + f.Ext(),
	}
}

// artifactBaseName builds a filename stem from the counterparty name, the
// document kind and the render timestamp.
func artifactBaseName(name string, kind model.DocumentKind, now time.Time) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	sanitized := strings.TrimSuffix(b.String(), "-")
	if sanitized == "" {
		sanitized = "document"
	}
	return fmt.Sprintf("%s-%s-%s", sanitized, kind, now.Format("20060102-150405"))
}

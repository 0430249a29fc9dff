package ltx

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
)

const extension = ".ltx"

// Project is a tree of LTX files rooted at a directory.
type Project struct {
	Root string
	// Files lists every .ltx file under Root.
	Files []string
	// Entries lists the files no other file includes.
	Entries []string

	includes map[string]string
	logger   *slog.Logger
	strict   bool
}

// ProjectOption configures a Project.
type ProjectOption func(*Project)

// WithLogger sets the logger for project operations.
func WithLogger(logger *slog.Logger) ProjectOption {
	return func(p *Project) {
		p.logger = logger
	}
}

// WithStrict enables checks that original game data is known to fail,
// such as includes that differ from the file name only by case.
func WithStrict(strict bool) ProjectOption {
	return func(p *Project) {
		p.strict = strict
	}
}

// Finding is one problem found while verifying a project.
type Finding struct {
	Path string
	Err  error
}

func (f Finding) String() string {
	return f.Path + ": " + f.Err.Error()
}

// Report summarizes a Verify or Format run.
type Report struct {
	Files    int
	Sections int
	Changed  []string
	Findings []Finding
}

// OpenProject walks root for .ltx files. A file path opens a project of
// that single file.
func OpenProject(root string, opts ...ProjectOption) (*Project, error) {
	p := &Project{Root: root, includes: make(map[string]string)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), extension) {
			return nil
		}
		p.Files = append(p.Files, path)
		l, err := ParseFile(path)
		if err != nil {
			// Reported again by Verify.
			return nil //nolint:nilerr // unreadable files are findings, not walk failures
		}
		for _, inc := range l.Includes {
			p.includes[IncludePath(filepath.Dir(path), inc)] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	slices.Sort(p.Files)

	for _, f := range p.Files {
		if _, ok := p.includes[f]; !ok {
			p.Entries = append(p.Entries, f)
		}
	}
	p.logger.Info("opened ltx project", slog.String("root", root),
		slog.Int("files", len(p.Files)), slog.Int("entries", len(p.Entries)))
	return p, nil
}

// Verify loads every entry file with includes and inheritance applied.
// Failures are collected as findings; the returned error is reserved for
// problems that stop the walk.
func (p *Project) Verify() (*Report, error) {
	report := &Report{Files: len(p.Files)}
	if p.strict {
		report.Findings = append(report.Findings, p.caseFindings()...)
	}
	for _, entry := range p.Entries {
		l, err := LoadFile(entry)
		if err != nil {
			report.Findings = append(report.Findings, Finding{Path: entry, Err: err})
			continue
		}
		report.Sections += l.Len()
		p.logger.Debug("verified ltx file", slog.String("path", entry), slog.Int("sections", l.Len()))
	}
	p.logger.Info("verified ltx project", slog.Int("files", report.Files),
		slog.Int("sections", report.Sections), slog.Int("findings", len(report.Findings)))
	return report, nil
}

// caseFindings reports includes that only resolve on case-insensitive
// file systems.
func (p *Project) caseFindings() []Finding {
	var out []Finding
	for _, f := range p.Files {
		if _, ok := p.includes[f]; ok {
			continue
		}
		for target, from := range p.includes {
			if strings.EqualFold(target, f) {
				out = append(out, Finding{
					Path: from,
					Err:  chunk.Errorf(chunk.ErrVerify, "includes %s with different case than %s", target, f),
				})
			}
		}
	}
	slices.SortFunc(out, func(a, b Finding) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// Format rewrites every file in canonical form. With write false it only
// lists the files that would change.
func (p *Project) Format(write bool) (*Report, error) {
	report := &Report{Files: len(p.Files)}
	for _, path := range p.Files {
		changed, err := FormatFile(path, write)
		if err != nil {
			report.Findings = append(report.Findings, Finding{Path: path, Err: err})
			continue
		}
		if changed {
			report.Changed = append(report.Changed, path)
			p.logger.Debug("formatted ltx file", slog.String("path", path))
		}
	}
	p.logger.Info("formatted ltx project", slog.Int("files", report.Files),
		slog.Int("changed", len(report.Changed)), slog.Int("findings", len(report.Findings)))
	return report, nil
}

// FormatFile canonicalizes one file and reports whether its bytes differ
// from the canonical form. Comments are not preserved.
func FormatFile(path string, write bool) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	l, err := ParseBytes(existing)
	if err != nil {
		return false, err
	}
	formatted, err := l.Encode()
	if err != nil {
		return false, err
	}
	if bytes.Equal(existing, formatted) {
		return false, nil
	}
	if write {
		if err := batch.WriteFile(path, formatted); err != nil {
			return false, fmt.Errorf("%w: %w", chunk.ErrIO, err)
		}
	}
	return true, nil
}

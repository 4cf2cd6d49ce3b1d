package schememanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/internal/schememanager/filename"
	"github.com/mugiliam/hatchschemesrv/pkg/api/schemastore"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

type SaveReport struct {
	Written    []string      `json:"written"`
	Unmodified []string      `json:"unmodified"`
	Deleted    []string      `json:"deleted"`
	Failures   []SchemeError `json:"-"`
}

// Err joins all failures of the cycle, or returns nil.
func (r *SaveReport) Err() error {
	return joinFailures(r.Failures)
}

func joinFailures(failures []SchemeError) error {
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// NeedsSave reports whether s is externalizable and not known to be
// unchanged or non-persistent.
func (m *Manager[S, M]) NeedsSave(s S) bool {
	if !m.processor.IsExternalizable(s) {
		return false
	}
	return m.processor.GetState(s).NeedsSave()
}

// SchemesToSave returns, in registration order, the schemes the next save
// cycle has to serialize.
func (m *Manager[S, M]) SchemesToSave() []S {
	var out []S
	for _, s := range m.AllSchemes() {
		if m.NeedsSave(s) {
			out = append(out, s)
		}
	}
	return out
}

// Document returns the serialized form of the named scheme.
func (m *Manager[S, M]) Document(name string) (*scheme.Element, error) {
	s, ok := m.FindByName(name)
	if !ok {
		return nil, ErrSchemeNotFound.Msg("scheme " + quote(name) + " not found")
	}
	return m.writeScheme(s)
}

func (m *Manager[S, M]) writeScheme(s S) (*scheme.Element, error) {
	mm, ok := scheme.Narrow[M](s)
	if !ok {
		return nil, ErrNotMutable.Msg("scheme " + quote(s.Name()) + " cannot be written")
	}
	el, err := m.processor.WriteScheme(mm)
	if err != nil {
		return nil, ErrExternalization.Err(err)
	}
	if el == nil {
		return nil, ErrExternalization.Msg("processor returned no document for " + quote(s.Name()))
	}
	return el, nil
}

type saveItem[S scheme.Scheme] struct {
	e        *entry[S]
	scheme   S
	fileName string
	digest   string
}

// Save runs one save cycle. Every scheme from SchemesToSave is serialized and
// written unless its document is identical to the last one written. Files of
// removed or renamed schemes are deleted. A failing scheme is reported and
// skipped; it never stops the others. The returned error joins all failures.
func (m *Manager[S, M]) Save(ctx context.Context) (*SaveReport, error) {
	ctx = common.SetProjectIdInContext(common.SetCycleIdInContext(ctx), m.settings.ProjectID)
	logger := log.Ctx(ctx).With().
		Str("directory", m.settings.DirectoryName).
		Str("cycle_id", common.CycleIdFromContext(ctx).String()).
		Logger()
	ctx = logger.WithContext(ctx)

	m.mu.RLock()
	items := make([]saveItem[S], len(m.entries))
	for i, e := range m.entries {
		items[i] = saveItem[S]{e: e, scheme: e.scheme, fileName: e.fileName, digest: e.digest}
	}
	m.mu.RUnlock()

	report := &SaveReport{}
	// file names held by live schemes in this cycle; they are never deleted
	// and never handed to another scheme
	claimed := make(map[string]bool, len(items))
	for _, it := range items {
		if it.fileName != "" {
			claimed[it.fileName] = true
		}
	}

	for _, it := range items {
		if !m.NeedsSave(it.scheme) {
			continue
		}
		name := it.scheme.Name()
		target := m.targetFileName(name, it.fileName, claimed)
		claimed[target] = true

		data, digest, err := m.encode(it.scheme)
		if err != nil {
			logger.Error().Err(err).Str("scheme", name).Msg("unable to serialize scheme")
			report.Failures = append(report.Failures, SchemeError{Name: name, Err: err})
			continue
		}
		if target == it.fileName && digest == it.digest {
			report.Unmodified = append(report.Unmodified, name)
			continue
		}
		if err := m.settings.Storage.Write(ctx, m.settings.DirectoryName, target, data, m.settings.RoamingType); err != nil {
			logger.Error().Err(err).Str("scheme", name).Str("file", target).Msg("unable to write scheme")
			report.Failures = append(report.Failures, SchemeError{Name: name, Err: ErrStorage.Err(err)})
			continue
		}

		if it.fileName != "" && it.fileName != target {
			delete(claimed, it.fileName)
		}
		m.mu.Lock()
		if !m.isLiveLocked(it.e) {
			// removed or replaced while the cycle ran
			m.filesToDelete[target] = struct{}{}
			m.mu.Unlock()
			logger.Debug().Str("scheme", name).Str("file", target).Msg("scheme removed during save")
			continue
		}
		if it.e.fileName != "" && it.e.fileName != target {
			m.filesToDelete[it.e.fileName] = struct{}{}
		}
		it.e.fileName = target
		it.e.digest = digest
		delete(m.filesToDelete, target)
		m.mu.Unlock()
		report.Written = append(report.Written, name)
	}

	m.deleteObsoleteFiles(ctx, report)

	logger.Info().
		Int("written", len(report.Written)).
		Int("unmodified", len(report.Unmodified)).
		Int("deleted", len(report.Deleted)).
		Int("failed", len(report.Failures)).
		Msg("scheme save cycle finished")
	return report, report.Err()
}

// targetFileName picks the file for a scheme: the sanitized name, made unique
// among the files claimed by other schemes.
func (m *Manager[S, M]) targetFileName(name, current string, claimed map[string]bool) string {
	ext := pkgtypes.SchemeFileExtension
	base := filename.FileName(name, ext, m.settings.UseOldNameSanitize)
	if base == current || !claimed[base] {
		return base
	}
	stem := strings.TrimSuffix(base, ext)
	for i := 2; ; i++ {
		candidate := filename.FileName(fmt.Sprintf("%s_%d", stem, i), ext, m.settings.UseOldNameSanitize)
		if candidate == current || !claimed[candidate] {
			return candidate
		}
	}
}

func (m *Manager[S, M]) encode(s S) ([]byte, string, error) {
	el, err := m.writeScheme(s)
	if err != nil {
		return nil, "", err
	}
	data, digest, err := schemastore.Encode(m.settings.DirectoryName, s.Name(), m.settings.RoamingType, el)
	if err != nil {
		return nil, "", ErrEncoding.Err(err)
	}
	return data, digest, nil
}

func (m *Manager[S, M]) isLiveLocked(e *entry[S]) bool {
	for _, live := range m.entries {
		if live == e {
			return true
		}
	}
	return false
}

// deleteObsoleteFiles removes scheduled files that no live scheme holds at
// the end of the cycle.
func (m *Manager[S, M]) deleteObsoleteFiles(ctx context.Context, report *SaveReport) {
	m.mu.Lock()
	held := make(map[string]bool, len(m.entries))
	for _, e := range m.entries {
		if e.fileName != "" {
			held[e.fileName] = true
		}
	}
	pending := make([]string, 0, len(m.filesToDelete))
	for f := range m.filesToDelete {
		if held[f] {
			delete(m.filesToDelete, f)
			continue
		}
		pending = append(pending, f)
	}
	m.mu.Unlock()
	sort.Strings(pending)

	for _, f := range pending {
		if err := m.settings.Storage.Delete(ctx, m.settings.DirectoryName, f); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("file", f).Msg("unable to delete scheme file")
			report.Failures = append(report.Failures, SchemeError{Name: f, Err: ErrStorage.Err(err)})
			continue
		}
		m.mu.Lock()
		delete(m.filesToDelete, f)
		m.mu.Unlock()
		report.Deleted = append(report.Deleted, f)
	}
}

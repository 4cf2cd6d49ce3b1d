package schememanager

import (
	"context"
	"strings"

	"github.com/mugiliam/hatchschemesrv/internal/common"
	"github.com/mugiliam/hatchschemesrv/pkg/api/schemastore"
	"github.com/mugiliam/hatchschemesrv/pkg/scheme"
	pkgtypes "github.com/mugiliam/hatchschemesrv/pkg/types"
	"github.com/rs/zerolog/log"
)

type LoadReport struct {
	Loaded   []string      `json:"loaded"`
	Failures []SchemeError `json:"-"`
}

// Err joins all failures of the cycle, or returns nil.
func (r *LoadReport) Err() error {
	return joinFailures(r.Failures)
}

// Load reads every scheme document of the manager's directory and registers
// the schemes through AddLoaded semantics. A file that cannot be read or
// parsed is reported and skipped, as is a file naming a scheme that another
// file already provides. Skipped files stay in storage.
func (m *Manager[S, M]) Load(ctx context.Context) (*LoadReport, error) {
	reader, ok := m.processor.(scheme.SchemeReader[M])
	if !ok {
		return nil, ErrLoadNotSupported.Msg("processor for " + quote(m.settings.DirectoryName) + " cannot read schemes")
	}
	ctx = common.SetProjectIdInContext(common.SetCycleIdInContext(ctx), m.settings.ProjectID)
	logger := log.Ctx(ctx).With().
		Str("directory", m.settings.DirectoryName).
		Str("cycle_id", common.CycleIdFromContext(ctx).String()).
		Logger()

	files, err := m.settings.Storage.List(ctx, m.settings.DirectoryName)
	if err != nil {
		return nil, ErrStorage.Err(err)
	}

	report := &LoadReport{}
	for _, f := range files {
		if !strings.HasSuffix(f, pkgtypes.SchemeFileExtension) {
			continue
		}
		s, digest, err := m.readFile(ctx, reader, f)
		if err == nil {
			err = m.add(s, false, f, digest)
		}
		if err != nil {
			logger.Error().Err(err).Str("file", f).Msg("unable to load scheme")
			report.Failures = append(report.Failures, SchemeError{Name: f, Err: err})
			continue
		}
		report.Loaded = append(report.Loaded, s.Name())
	}
	logger.Info().Int("loaded", len(report.Loaded)).Int("failed", len(report.Failures)).Msg("scheme load cycle finished")
	return report, report.Err()
}

func (m *Manager[S, M]) readFile(ctx context.Context, reader scheme.SchemeReader[M], file string) (S, string, error) {
	var zero S
	data, err := m.settings.Storage.Read(ctx, m.settings.DirectoryName, file)
	if err != nil {
		return zero, "", ErrStorage.Err(err)
	}
	rep, err := schemastore.Decode(data)
	if err != nil {
		return zero, "", ErrInvalidDocument.Err(err)
	}
	if rep.Directory != "" && rep.Directory != m.settings.DirectoryName {
		return zero, "", ErrInvalidDocument.Msg("document belongs to " + quote(rep.Directory))
	}
	mm, err := reader.ReadScheme(rep.Document)
	if err != nil {
		return zero, "", ErrInvalidDocument.Err(err)
	}
	s, ok := any(mm).(S)
	if !ok || scheme.IsAbsent(s) {
		return zero, "", ErrInvalidDocument.Msg("processor returned no scheme for " + quote(file))
	}
	return s, rep.GetHash(), nil
}
